package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OnlinePaymentStatus string

const (
	OnlinePending  OnlinePaymentStatus = "pending"
	OnlinePaid     OnlinePaymentStatus = "paid"
	OnlineFailed   OnlinePaymentStatus = "failed"
	OnlineExpired  OnlinePaymentStatus = "expired"
	OnlineCanceled OnlinePaymentStatus = "canceled"
)

// FeeOnlinePaymentModel is one gateway checkout for a fee. The order id is
// what the gateway echoes back in notifications.
type FeeOnlinePaymentModel struct {
	FeeOnlinePaymentID              uuid.UUID           `gorm:"column:fee_online_payment_id;type:uuid;primaryKey" json:"fee_online_payment_id"`
	FeeOnlinePaymentFeeCollectionID uuid.UUID           `gorm:"column:fee_online_payment_fee_collection_id;type:uuid;not null;index:idx_fee_online_payments_fee" json:"fee_online_payment_fee_collection_id"`
	FeeOnlinePaymentOrderID         string              `gorm:"column:fee_online_payment_order_id;type:varchar(64);not null;uniqueIndex:uq_fee_online_payments_order" json:"fee_online_payment_order_id"`
	FeeOnlinePaymentAmount          int64               `gorm:"column:fee_online_payment_amount;not null" json:"fee_online_payment_amount"`
	FeeOnlinePaymentStatus          OnlinePaymentStatus `gorm:"column:fee_online_payment_status;type:varchar(20);not null;default:'pending'" json:"fee_online_payment_status"`
	FeeOnlinePaymentSnapToken       *string             `gorm:"column:fee_online_payment_snap_token;type:varchar(255)" json:"fee_online_payment_snap_token,omitempty"`
	FeeOnlinePaymentRedirectURL     *string             `gorm:"column:fee_online_payment_redirect_url;type:text" json:"fee_online_payment_redirect_url,omitempty"`
	FeeOnlinePaymentTransactionID   *string             `gorm:"column:fee_online_payment_transaction_id;type:varchar(100)" json:"fee_online_payment_transaction_id,omitempty"`
	FeeOnlinePaymentPaidAt          *time.Time          `gorm:"column:fee_online_payment_paid_at" json:"fee_online_payment_paid_at,omitempty"`

	FeeOnlinePaymentCreatedAt time.Time `gorm:"column:fee_online_payment_created_at;autoCreateTime" json:"fee_online_payment_created_at"`
	FeeOnlinePaymentUpdatedAt time.Time `gorm:"column:fee_online_payment_updated_at;autoUpdateTime" json:"fee_online_payment_updated_at"`
}

func (FeeOnlinePaymentModel) TableName() string { return "fee_online_payments" }

func (m *FeeOnlinePaymentModel) BeforeCreate(tx *gorm.DB) error {
	if m.FeeOnlinePaymentID == uuid.Nil {
		m.FeeOnlinePaymentID = uuid.New()
	}
	return nil
}

// Final statuses are never changed by later notifications.
func (m FeeOnlinePaymentModel) Final() bool {
	return m.FeeOnlinePaymentStatus == OnlinePaid
}
