package dto

import (
	"shopbooks/internal/core/types"
	"shopbooks/internal/domain/documents/bill"
	"shopbooks/internal/domain/documents/expense"
	"shopbooks/internal/domain/documents/payment"
	"shopbooks/internal/domain/documents/purchase"
	"shopbooks/internal/domain/documents/receipt"
)

// LineItemRequest is one document line.
type LineItemRequest struct {
	Name     string      `json:"name" binding:"required"`
	Color    string      `json:"color"`
	Quantity int64       `json:"quantity" binding:"required,min=1"`
	Price    types.Money `json:"price"`
	Total    types.Money `json:"total"`
}

// LineItemResponse is one document line.
type LineItemResponse struct {
	Name     string `json:"name"`
	Color    string `json:"color,omitempty"`
	Quantity int64  `json:"quantity"`
	Price    string `json:"price"`
	Total    string `json:"total"`
}

// --- Bills ---

// CreateBillRequest creates a sales bill.
type CreateBillRequest struct {
	Date        string            `json:"date"`
	Customer    string            `json:"customer" binding:"required"`
	CustomerID  string            `json:"customerId"`
	Items       []LineItemRequest `json:"items" binding:"required"`
	Amount      types.Money       `json:"amount" binding:"required"`
	PaymentMode string            `json:"paymentMode" binding:"required"`
	DueDate     string            `json:"dueDate"`
}

// ToBill converts the request to a bill.
func (r CreateBillRequest) ToBill() bill.Bill {
	items := make([]bill.LineItem, 0, len(r.Items))
	for _, i := range r.Items {
		items = append(items, bill.LineItem{
			Name:     i.Name,
			Color:    i.Color,
			Quantity: i.Quantity,
			Price:    i.Price,
			Total:    i.Total,
		})
	}
	return bill.Bill{
		Date:        r.Date,
		Customer:    r.Customer,
		CustomerID:  r.CustomerID,
		Items:       items,
		Amount:      r.Amount,
		PaymentMode: r.PaymentMode,
		DueDate:     r.DueDate,
	}
}

// BillResponse is a sales bill.
type BillResponse struct {
	ID          string             `json:"id"`
	Date        string             `json:"date"`
	Customer    string             `json:"customer"`
	CustomerID  string             `json:"customerId,omitempty"`
	Items       []LineItemResponse `json:"items"`
	Amount      string             `json:"amount"`
	PaymentMode string             `json:"paymentMode"`
	DueDate     string             `json:"dueDate,omitempty"`
}

// FromBill creates BillResponse from a bill.
func FromBill(b bill.Bill) BillResponse {
	items := make([]LineItemResponse, 0, len(b.Items))
	for _, i := range b.Items {
		items = append(items, LineItemResponse{
			Name:     i.Name,
			Color:    i.Color,
			Quantity: i.Quantity,
			Price:    i.Price.String(),
			Total:    i.Total.String(),
		})
	}
	return BillResponse{
		ID:          b.ID,
		Date:        b.Date,
		Customer:    b.Customer,
		CustomerID:  b.CustomerID,
		Items:       items,
		Amount:      b.Amount.String(),
		PaymentMode: b.PaymentMode,
		DueDate:     b.DueDate,
	}
}

// --- Purchases ---

// CreatePurchaseRequest creates a purchase.
type CreatePurchaseRequest struct {
	Date         string            `json:"date"`
	Vendor       string            `json:"vendor" binding:"required"`
	VendorID     string            `json:"vendorId"`
	Items        []LineItemRequest `json:"items" binding:"required"`
	Amount       types.Money       `json:"amount" binding:"required"`
	PurchaseType string            `json:"purchaseType" binding:"required"`
	DueDate      string            `json:"dueDate"`
	Reference    string            `json:"reference"`
	Notes        string            `json:"notes"`
}

// ToPurchase converts the request to a purchase.
func (r CreatePurchaseRequest) ToPurchase() purchase.Purchase {
	items := make([]purchase.LineItem, 0, len(r.Items))
	for _, i := range r.Items {
		items = append(items, purchase.LineItem{
			Name:     i.Name,
			Color:    i.Color,
			Quantity: i.Quantity,
			Price:    i.Price,
			Total:    i.Total,
		})
	}
	return purchase.Purchase{
		Date:         r.Date,
		Vendor:       r.Vendor,
		VendorID:     r.VendorID,
		Items:        items,
		Amount:       r.Amount,
		PurchaseType: r.PurchaseType,
		DueDate:      r.DueDate,
		Reference:    r.Reference,
		Notes:        r.Notes,
	}
}

// PurchaseResponse is a purchase.
type PurchaseResponse struct {
	ID           string             `json:"id"`
	Date         string             `json:"date"`
	Vendor       string             `json:"vendor"`
	VendorID     string             `json:"vendorId,omitempty"`
	Items        []LineItemResponse `json:"items"`
	Amount       string             `json:"amount"`
	PurchaseType string             `json:"purchaseType"`
	DueDate      string             `json:"dueDate,omitempty"`
	Reference    string             `json:"reference,omitempty"`
	Notes        string             `json:"notes,omitempty"`
}

// FromPurchase creates PurchaseResponse from a purchase.
func FromPurchase(p purchase.Purchase) PurchaseResponse {
	items := make([]LineItemResponse, 0, len(p.Items))
	for _, i := range p.Items {
		items = append(items, LineItemResponse{
			Name:     i.Name,
			Color:    i.Color,
			Quantity: i.Quantity,
			Price:    i.Price.String(),
			Total:    i.Total.String(),
		})
	}
	return PurchaseResponse{
		ID:           p.ID,
		Date:         p.Date,
		Vendor:       p.Vendor,
		VendorID:     p.VendorID,
		Items:        items,
		Amount:       p.Amount.String(),
		PurchaseType: p.PurchaseType,
		DueDate:      p.DueDate,
		Reference:    p.Reference,
		Notes:        p.Notes,
	}
}

// --- Payments ---

// CreatePaymentRequest creates a standalone outgoing payment.
type CreatePaymentRequest struct {
	Date         string      `json:"date"`
	Vendor       string      `json:"vendor"`
	VendorID     string      `json:"vendorId"`
	Title        string      `json:"title"`
	Amount       types.Money `json:"amount" binding:"required"`
	Type         string      `json:"type" binding:"required"`
	Reference    string      `json:"reference"`
	ChequeNumber string      `json:"chequeNumber"`
}

// ToPayment converts the request to a payment.
func (r CreatePaymentRequest) ToPayment() payment.Payment {
	return payment.Payment{
		Date:         r.Date,
		Vendor:       r.Vendor,
		VendorID:     r.VendorID,
		Title:        r.Title,
		Amount:       r.Amount,
		Type:         r.Type,
		Reference:    r.Reference,
		ChequeNumber: r.ChequeNumber,
	}
}

// PaymentResponse is a standalone payment.
type PaymentResponse struct {
	ID           string `json:"id"`
	Date         string `json:"date"`
	Vendor       string `json:"vendor,omitempty"`
	VendorID     string `json:"vendorId,omitempty"`
	Title        string `json:"title,omitempty"`
	Amount       string `json:"amount"`
	Type         string `json:"type"`
	Reference    string `json:"reference,omitempty"`
	ChequeNumber string `json:"chequeNumber,omitempty"`
}

// FromPayment creates PaymentResponse from a payment.
func FromPayment(p payment.Payment) PaymentResponse {
	return PaymentResponse{
		ID:           p.ID,
		Date:         p.Date,
		Vendor:       p.Vendor,
		VendorID:     p.VendorID,
		Title:        p.Title,
		Amount:       p.Amount.String(),
		Type:         p.Type,
		Reference:    p.Reference,
		ChequeNumber: p.ChequeNumber,
	}
}

// --- Receipts ---

// CreateReceiptRequest creates a standalone incoming receipt.
type CreateReceiptRequest struct {
	Date         string      `json:"date"`
	Customer     string      `json:"customer"`
	CustomerID   string      `json:"customerId"`
	Title        string      `json:"title"`
	Amount       types.Money `json:"amount" binding:"required"`
	ReceiptType  string      `json:"receiptType" binding:"required"`
	Reference    string      `json:"reference"`
	ChequeNumber string      `json:"chequeNumber"`
}

// ToReceipt converts the request to a receipt.
func (r CreateReceiptRequest) ToReceipt() receipt.Receipt {
	return receipt.Receipt{
		Date:         r.Date,
		Customer:     r.Customer,
		CustomerID:   r.CustomerID,
		Title:        r.Title,
		Amount:       r.Amount,
		ReceiptType:  r.ReceiptType,
		Reference:    r.Reference,
		ChequeNumber: r.ChequeNumber,
	}
}

// ReceiptResponse is a standalone receipt.
type ReceiptResponse struct {
	ID           string `json:"id"`
	Date         string `json:"date"`
	Customer     string `json:"customer,omitempty"`
	CustomerID   string `json:"customerId,omitempty"`
	Title        string `json:"title,omitempty"`
	Amount       string `json:"amount"`
	ReceiptType  string `json:"receiptType"`
	Reference    string `json:"reference,omitempty"`
	ChequeNumber string `json:"chequeNumber,omitempty"`
}

// FromReceipt creates ReceiptResponse from a receipt.
func FromReceipt(r receipt.Receipt) ReceiptResponse {
	return ReceiptResponse{
		ID:           r.ID,
		Date:         r.Date,
		Customer:     r.Customer,
		CustomerID:   r.CustomerID,
		Title:        r.Title,
		Amount:       r.Amount.String(),
		ReceiptType:  r.ReceiptType,
		Reference:    r.Reference,
		ChequeNumber: r.ChequeNumber,
	}
}

// --- Expenses ---

// CreateExpenseRequest creates an expense.
type CreateExpenseRequest struct {
	Date        string      `json:"date"`
	Title       string      `json:"title" binding:"required"`
	Category    string      `json:"category"`
	Amount      types.Money `json:"amount" binding:"required"`
	PaymentMode string      `json:"paymentMode" binding:"required"`
	Reference   string      `json:"reference"`
}

// ToExpense converts the request to an expense.
func (r CreateExpenseRequest) ToExpense() expense.Expense {
	return expense.Expense{
		Date:        r.Date,
		Title:       r.Title,
		Category:    r.Category,
		Amount:      r.Amount,
		PaymentMode: r.PaymentMode,
		Reference:   r.Reference,
	}
}

// UpdateExpenseRequest edits an expense. All fields are full replacements;
// the service decides whether the change moves money.
type UpdateExpenseRequest struct {
	Date        string      `json:"date"`
	Title       string      `json:"title" binding:"required"`
	Category    string      `json:"category"`
	Amount      types.Money `json:"amount" binding:"required"`
	PaymentMode string      `json:"paymentMode" binding:"required"`
	Reference   string      `json:"reference"`
}

// ToExpense converts the request to an expense.
func (r UpdateExpenseRequest) ToExpense() expense.Expense {
	return expense.Expense{
		Date:        r.Date,
		Title:       r.Title,
		Category:    r.Category,
		Amount:      r.Amount,
		PaymentMode: r.PaymentMode,
		Reference:   r.Reference,
	}
}

// ExpenseResponse is an expense.
type ExpenseResponse struct {
	ID          string `json:"id"`
	Date        string `json:"date"`
	Title       string `json:"title"`
	Category    string `json:"category,omitempty"`
	Amount      string `json:"amount"`
	PaymentMode string `json:"paymentMode"`
	Reference   string `json:"reference,omitempty"`
}

// FromExpense creates ExpenseResponse from an expense.
func FromExpense(e expense.Expense) ExpenseResponse {
	return ExpenseResponse{
		ID:          e.ID,
		Date:        e.Date,
		Title:       e.Title,
		Category:    e.Category,
		Amount:      e.Amount.String(),
		PaymentMode: e.PaymentMode,
		Reference:   e.Reference,
	}
}
