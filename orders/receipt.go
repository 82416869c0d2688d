package orders

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"velour/apperr"
	"velour/utils"

	"github.com/julienschmidt/httprouter"
	"github.com/phpdave11/gofpdf"
	"github.com/skip2/go-qrcode"
)

func receiptSecret() []byte {
	if s := os.Getenv("RECEIPT_SECRET"); s != "" {
		return []byte(s)
	}
	return []byte("velour_receipt_secret")
}

// receiptPayload is the signed QR content: orderid|email|timestamp|signature.
func receiptPayload(orderID, email string) string {
	data := fmt.Sprintf("%s|%s|%d", orderID, email, time.Now().Unix())
	h := hmac.New(sha256.New, receiptSecret())
	h.Write([]byte(data))
	sig := base64.StdEncoding.EncodeToString(h.Sum(nil))
	return fmt.Sprintf("%s|%s", data, sig)
}

// OrderReceipt serves GET /api/orders/:id/receipt as a PDF with a
// verification QR code.
func OrderReceipt(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	order, err := fetchOrder(ctx, ps.ByName("id"))
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}
	if !mayAccessOrder(r, order) {
		utils.RespondWithAppError(w, apperr.New(apperr.Unauthenticated, "not your order"))
		return
	}

	items, err := fetchOrderItems(ctx, order.OrderID)
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}

	qrPNG, err := qrcode.Encode(receiptPayload(order.OrderID, order.Email), qrcode.Medium, 256)
	if err != nil {
		http.Error(w, "Failed to generate QR code", http.StatusInternalServerError)
		return
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, "Order Receipt")
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Order: %s", order.OrderID))
	pdf.Ln(6)
	pdf.Cell(0, 8, fmt.Sprintf("Date: %s", utils.FormatDate(order.CreatedAt)))
	pdf.Ln(6)
	pdf.Cell(0, 8, fmt.Sprintf("Email: %s", order.Email))
	pdf.Ln(10)

	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(0, 8, "Items")
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 11)
	for _, it := range items {
		pdf.Cell(0, 7, fmt.Sprintf("%dx %s (%s, %s) - %s",
			it.Quantity, it.ProductName, it.Size, it.Color,
			utils.FormatCurrency(it.PriceAtPurchase*int64(it.Quantity))))
		pdf.Ln(6)
	}

	pdf.Ln(6)
	pdf.Cell(0, 7, fmt.Sprintf("Subtotal: %s", utils.FormatCurrency(order.Subtotal)))
	pdf.Ln(6)
	if order.Discount > 0 {
		pdf.Cell(0, 7, fmt.Sprintf("Discount: -%s", utils.FormatCurrency(order.Discount)))
		pdf.Ln(6)
	}
	pdf.Cell(0, 7, fmt.Sprintf("Shipping: %s", utils.FormatCurrency(order.Shipping)))
	pdf.Ln(6)
	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Total: %s", utils.FormatCurrency(order.Total)))

	imageOpts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("qr", imageOpts, bytes.NewReader(qrPNG))
	pdf.ImageOptions("qr", 150, 30, 40, 40, false, imageOpts, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		log.Println("OrderReceipt pdf error:", err)
		http.Error(w, "Failed to generate PDF", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=receipt-%s.pdf", order.OrderID))
	w.Write(buf.Bytes())
}
