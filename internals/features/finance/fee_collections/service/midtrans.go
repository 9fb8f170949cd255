package service

import (
	"crypto/sha512"
	"encoding/hex"
	"strings"

	midtrans "github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"
	"github.com/pkg/errors"
)

// Customer is the payer shown on the gateway checkout page.
type Customer struct {
	Name  string
	Email string
	Phone string
}

// Checkout is what the client needs to open the gateway page.
type Checkout struct {
	Token       string
	RedirectURL string
}

// Gateway creates hosted checkouts and verifies notifications.
type Gateway interface {
	CreateCheckout(orderID string, amount int64, itemName string, cust Customer) (Checkout, error)
	VerifySignature(orderID, statusCode, grossAmount, signature string) bool
}

// MidtransGateway is the Snap implementation.
type MidtransGateway struct {
	client    *snap.Client
	serverKey string
}

func NewMidtransGateway(serverKey string, useProduction bool) *MidtransGateway {
	env := midtrans.Sandbox
	if useProduction {
		env = midtrans.Production
	}
	c := &snap.Client{}
	c.New(serverKey, env)
	return &MidtransGateway{client: c, serverKey: serverKey}
}

func (g *MidtransGateway) CreateCheckout(orderID string, amount int64, itemName string, cust Customer) (Checkout, error) {
	if amount <= 0 {
		return Checkout{}, errors.New("checkout amount must be positive")
	}
	first, last := splitName(cust.Name)
	req := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{OrderID: orderID, GrossAmt: amount},
		CustomerDetail: &midtrans.CustomerDetails{
			FName: first,
			LName: last,
			Email: cust.Email,
			Phone: cust.Phone,
		},
		Items: &[]midtrans.ItemDetails{{
			ID:       orderID,
			Price:    amount,
			Qty:      1,
			Name:     truncate(itemName, 50),
			Category: "school-fee",
		}},
	}
	resp, mErr := g.client.CreateTransaction(req)
	if mErr != nil {
		return Checkout{}, errors.Wrap(mErr, "midtrans create transaction")
	}
	return Checkout{Token: resp.Token, RedirectURL: resp.RedirectURL}, nil
}

// VerifySignature checks SHA512(order_id + status_code + gross_amount + server_key).
func (g *MidtransGateway) VerifySignature(orderID, statusCode, grossAmount, signature string) bool {
	sum := sha512.Sum512([]byte(orderID + statusCode + grossAmount + g.serverKey))
	want := strings.ToLower(strings.TrimSpace(signature))
	return want != "" && hex.EncodeToString(sum[:]) == want
}

func splitName(full string) (string, string) {
	full = strings.TrimSpace(full)
	if i := strings.LastIndexByte(full, ' '); i > 0 {
		return full[:i], full[i+1:]
	}
	return full, ""
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
