package service

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"schoolms_backend/internals/features/finance/fee_collections/model"
	helper "schoolms_backend/internals/helpers"
)

// Summary totals every row of a filtered fee query.
type Summary struct {
	TotalAmount   int64 `json:"total_amount"`
	TotalPaid     int64 `json:"total_paid"`
	TotalDiscount int64 `json:"total_discount"`
	TotalFine     int64 `json:"total_fine"`
	TotalDue      int64 `json:"total_due"`
}

func Summarize(q *gorm.DB) (Summary, error) {
	var s Summary
	err := q.Session(&gorm.Session{}).Select(
		"COALESCE(SUM(fee_collection_amount), 0) AS total_amount, " +
			"COALESCE(SUM(fee_collection_paid), 0) AS total_paid, " +
			"COALESCE(SUM(fee_collection_discount), 0) AS total_discount, " +
			"COALESCE(SUM(fee_collection_fine), 0) AS total_fine, " +
			"COALESCE(SUM(" + model.DueExpr + "), 0) AS total_due",
	).Scan(&s).Error
	return s, errors.Wrap(err, "summarize fees")
}

// NewOrderID is unique per checkout attempt: FEE-<yyyymmddhhmmss>-<8 hex>.
func NewOrderID(now time.Time) string {
	u := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return "FEE-" + now.Format("20060102150405") + "-" + u[:8]
}

// Notification is the subset of a gateway notification we act on.
type Notification struct {
	OrderID           string `json:"order_id"`
	StatusCode        string `json:"status_code"`
	GrossAmount       string `json:"gross_amount"`
	SignatureKey      string `json:"signature_key"`
	TransactionStatus string `json:"transaction_status"`
	FraudStatus       string `json:"fraud_status"`
	TransactionID     string `json:"transaction_id"`
	PaymentType       string `json:"payment_type"`
}

// MapStatus translates a gateway transaction status.
func MapStatus(current model.OnlinePaymentStatus, transactionStatus, fraudStatus string) model.OnlinePaymentStatus {
	switch strings.ToLower(transactionStatus) {
	case "capture":
		switch strings.ToLower(fraudStatus) {
		case "accept", "":
			return model.OnlinePaid
		case "challenge":
			return model.OnlinePending
		}
		return model.OnlineFailed
	case "settlement":
		return model.OnlinePaid
	case "pending":
		return model.OnlinePending
	case "deny", "failure":
		return model.OnlineFailed
	case "cancel":
		return model.OnlineCanceled
	case "expire":
		return model.OnlineExpired
	}
	return current
}

// ApplyResult reports what a notification did.
type ApplyResult struct {
	Payment *model.FeeOnlinePaymentModel
	Fee     *model.FeeCollectionModel
	// Applied is true only the first time a paid notification credits the fee.
	Applied bool
}

// ApplyNotification updates the checkout row and, on the first paid status,
// credits the fee. Replays of the same order id after it is paid change
// nothing.
func ApplyNotification(tx *gorm.DB, n Notification, now time.Time) (*ApplyResult, error) {
	var p model.FeeOnlinePaymentModel
	err := helper.ForUpdate(tx).Limit(1).Find(&p, "fee_online_payment_order_id = ?", n.OrderID).Error
	if err != nil {
		return nil, errors.Wrap(err, "load online payment")
	}
	if p.FeeOnlinePaymentID == uuid.Nil {
		return nil, helper.NotFound("Payment")
	}
	res := &ApplyResult{Payment: &p}
	if p.Final() {
		return res, nil
	}

	next := MapStatus(p.FeeOnlinePaymentStatus, n.TransactionStatus, n.FraudStatus)
	p.FeeOnlinePaymentStatus = next
	if n.TransactionID != "" {
		ref := n.TransactionID
		p.FeeOnlinePaymentTransactionID = &ref
	}

	if next == model.OnlinePaid {
		amount := p.FeeOnlinePaymentAmount
		if gross, err := parseGross(n.GrossAmount); err == nil && gross > 0 {
			amount = gross
		}
		paidAt := now
		p.FeeOnlinePaymentPaidAt = &paidAt

		var fee model.FeeCollectionModel
		if err := helper.ForUpdate(tx).First(&fee, "fee_collection_id = ?", p.FeeOnlinePaymentFeeCollectionID).Error; err != nil {
			return nil, errors.Wrap(err, "load fee")
		}
		credit := amount
		if due := fee.Due(); credit > due {
			credit = due
		}
		if credit > 0 {
			fee.FeeCollectionPaid += credit
		}
		today := helper.DateOnly(now)
		method := model.PaymentOnline
		fee.FeeCollectionPaymentDate = &today
		fee.FeeCollectionPaymentMethod = &method
		if err := tx.Omit("Student").Save(&fee).Error; err != nil {
			return nil, errors.Wrap(err, "credit fee")
		}
		res.Fee = &fee
		res.Applied = true
	}

	if err := tx.Save(&p).Error; err != nil {
		return nil, errors.Wrap(err, "update online payment")
	}
	return res, nil
}

// parseGross accepts "150000.00" as sent by the gateway.
func parseGross(s string) (int64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("gross_amount %q: %w", s, err)
	}
	return int64(f + 0.5), nil
}
