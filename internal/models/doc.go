// Package models defines the core domain models for Invoicer.
//
// # Models
//
//   - Invoice: a billing document with parties, dates, status and line items
//   - LineItem: one billable row; its Amount is always Quantity × Rate
//   - Totals: the derived money figures of an invoice
//   - HeaderSchema: the renameable column labels of the line-item table
//   - Organization: the issuing organization shown on rendered documents
//   - Currency: a registered currency code with its display label and symbol
//
// # Design Principles
//
// 1. **Derived values are never set directly**: LineItem.Amount and Invoice.Totals
// are written only by the ledger and the calculator.
// 2. **Exact money**: all monetary values are decimal.Decimal; rounding happens
// only when a document is rendered.
// 3. **Defaults once**: a draft gets its defaults when it is constructed, not
// through fallbacks scattered over the read paths.
// 4. **Avoid circular references**: use ID strings instead of pointers for relationships.
package models
