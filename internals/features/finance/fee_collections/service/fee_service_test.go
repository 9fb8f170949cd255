package service_test

import (
	"crypto/sha512"
	"encoding/hex"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"schoolms_backend/internals/databases/testdb"
	"schoolms_backend/internals/features/finance/fee_collections/model"
	"schoolms_backend/internals/features/finance/fee_collections/service"
	studentModel "schoolms_backend/internals/features/school/students/model"
	userModel "schoolms_backend/internals/features/users/users/model"
)

func seedFee(t *testing.T, db *gorm.DB, amount int64) (model.FeeCollectionModel, model.FeeOnlinePaymentModel) {
	t.Helper()
	u := userModel.UserModel{Name: "Ayu", Email: uuid.NewString() + "@school.local", Password: "x"}
	require.NoError(t, db.Create(&u).Error)
	st := studentModel.StudentModel{StudentUserID: u.ID, StudentAdmissionNo: uuid.NewString()[:8], StudentAdmissionDate: time.Now()}
	require.NoError(t, db.Create(&st).Error)

	fee := model.FeeCollectionModel{FeeCollectionStudentID: st.StudentID, FeeCollectionFeeType: "tuition", FeeCollectionYear: 2024, FeeCollectionAmount: amount}
	require.NoError(t, db.Create(&fee).Error)
	p := model.FeeOnlinePaymentModel{
		FeeOnlinePaymentFeeCollectionID: fee.FeeCollectionID,
		FeeOnlinePaymentOrderID:         service.NewOrderID(time.Now()),
		FeeOnlinePaymentAmount:          fee.Due(),
		FeeOnlinePaymentStatus:          model.OnlinePending,
	}
	require.NoError(t, db.Create(&p).Error)
	return fee, p
}

func TestMapStatus(t *testing.T) {
	tests := []struct {
		tx, fraud string
		want      model.OnlinePaymentStatus
	}{
		{"capture", "accept", model.OnlinePaid},
		{"capture", "challenge", model.OnlinePending},
		{"capture", "deny", model.OnlineFailed},
		{"settlement", "", model.OnlinePaid},
		{"pending", "", model.OnlinePending},
		{"deny", "", model.OnlineFailed},
		{"cancel", "", model.OnlineCanceled},
		{"expire", "", model.OnlineExpired},
		{"refund", "", model.OnlinePending},
	}
	for _, tt := range tests {
		t.Run(tt.tx+"/"+tt.fraud, func(t *testing.T) {
			assert.Equal(t, tt.want, service.MapStatus(model.OnlinePending, tt.tx, tt.fraud))
		})
	}
}

func TestVerifySignature(t *testing.T) {
	g := service.NewMidtransGateway("SB-server-key", false)
	sum := sha512.Sum512([]byte("FEE-1" + "200" + "150000.00" + "SB-server-key"))
	sig := hex.EncodeToString(sum[:])

	assert.True(t, g.VerifySignature("FEE-1", "200", "150000.00", sig))
	assert.False(t, g.VerifySignature("FEE-1", "200", "150001.00", sig))
	assert.False(t, g.VerifySignature("FEE-1", "200", "150000.00", ""))
}

func TestApplyNotificationIsIdempotent(t *testing.T) {
	db := testdb.Open(t)
	fee, p := seedFee(t, db, 150000)
	now := time.Date(2024, 5, 2, 9, 0, 0, 0, time.UTC)
	n := service.Notification{OrderID: p.FeeOnlinePaymentOrderID, GrossAmount: "150000.00", TransactionStatus: "settlement", TransactionID: "trx-1"}

	res, err := service.ApplyNotification(db, n, now)
	require.NoError(t, err)
	assert.True(t, res.Applied)
	assert.Equal(t, model.OnlinePaid, res.Payment.FeeOnlinePaymentStatus)

	res, err = service.ApplyNotification(db, n, now.Add(time.Minute))
	require.NoError(t, err)
	assert.False(t, res.Applied)

	var got model.FeeCollectionModel
	require.NoError(t, db.First(&got, "fee_collection_id = ?", fee.FeeCollectionID).Error)
	assert.Equal(t, int64(150000), got.FeeCollectionPaid)
	assert.Equal(t, model.FeeStatusPaid, got.Status())
	require.NotNil(t, got.FeeCollectionPaymentMethod)
	assert.Equal(t, model.PaymentOnline, *got.FeeCollectionPaymentMethod)
}

func TestApplyNotificationCapsCreditAtDue(t *testing.T) {
	db := testdb.Open(t)
	fee, p := seedFee(t, db, 100000)
	require.NoError(t, db.Model(&fee).Update("fee_collection_paid", 60000).Error)

	n := service.Notification{OrderID: p.FeeOnlinePaymentOrderID, GrossAmount: "100000.00", TransactionStatus: "capture", FraudStatus: "accept"}
	res, err := service.ApplyNotification(db, n, time.Now())
	require.NoError(t, err)
	require.NotNil(t, res.Fee)
	assert.Equal(t, int64(100000), res.Fee.FeeCollectionPaid)
	assert.Equal(t, int64(0), res.Fee.Due())
}

func TestApplyNotificationPendingLeavesFee(t *testing.T) {
	db := testdb.Open(t)
	fee, p := seedFee(t, db, 50000)

	res, err := service.ApplyNotification(db, service.Notification{OrderID: p.FeeOnlinePaymentOrderID, TransactionStatus: "pending"}, time.Now())
	require.NoError(t, err)
	assert.False(t, res.Applied)

	var got model.FeeCollectionModel
	require.NoError(t, db.First(&got, "fee_collection_id = ?", fee.FeeCollectionID).Error)
	assert.Equal(t, int64(0), got.FeeCollectionPaid)
}

func TestApplyNotificationUnknownOrder(t *testing.T) {
	db := testdb.Open(t)
	_, err := service.ApplyNotification(db, service.Notification{OrderID: "FEE-missing"}, time.Now())
	assert.Error(t, err)
}

func TestSummarize(t *testing.T) {
	db := testdb.Open(t)
	seedFee(t, db, 1000)
	fee, _ := seedFee(t, db, 500)
	require.NoError(t, db.Model(&fee).Updates(map[string]any{"fee_collection_paid": 200, "fee_collection_discount": 50}).Error)

	s, err := service.Summarize(db.Model(&model.FeeCollectionModel{}))
	require.NoError(t, err)
	assert.Equal(t, int64(1500), s.TotalAmount)
	assert.Equal(t, int64(200), s.TotalPaid)
	assert.Equal(t, int64(1250), s.TotalDue)
}
