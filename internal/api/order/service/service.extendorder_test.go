// Package service - test báo giá gia hạn trên các fake trong bộ nhớ.
package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	tenantmodels "qrapp/internal/api/tenant/models"
	"qrapp/internal/common"
	"qrapp/internal/payment"
)

type fakePlanFinder struct {
	plan tenantmodels.Plan
}

func (f *fakePlanFinder) FindOneById(ctx context.Context, id primitive.ObjectID) (tenantmodels.Plan, error) {
	if id != f.plan.ID {
		return tenantmodels.Plan{}, common.ErrNotFound
	}
	return f.plan, nil
}

type fakeSystemAccountFinder struct {
	account tenantmodels.Payment
	err     error
}

func (f *fakeSystemAccountFinder) FindSystemAccount(ctx context.Context) (tenantmodels.Payment, error) {
	return f.account, f.err
}

func TestExtendOrderService_Quote(t *testing.T) {
	plan := tenantmodels.Plan{
		ID:     primitive.NewObjectID(),
		Name:   "Gói 6 tháng",
		Period: 180,
		Price:  1200000,
	}
	account := tenantmodels.Payment{
		BankCode:      "VCB",
		AccountNumber: "0123456789",
		AccountName:   "CONG TY QRAPP",
	}
	ctx := context.Background()

	t.Run("báo giá kèm mã QR của tài khoản hệ thống", func(t *testing.T) {
		service := &ExtendOrderService{
			plans:    &fakePlanFinder{plan: plan},
			payments: &fakeSystemAccountFinder{account: account},
			qr:       payment.NewVietQRGenerator("https://img.vietqr.io/image"),
		}

		quote, err := service.Quote(ctx, plan.ID)
		require.NoError(t, err)
		assert.Equal(t, plan, quote.Plan)
		assert.Equal(t, account, quote.Account)
		assert.Contains(t, quote.QRCodeURL, "VCB-0123456789")
		assert.Contains(t, quote.QRCodeURL, "amount=1200000")
	})

	t.Run("thiếu tài khoản hệ thống trả lỗi nghiệp vụ", func(t *testing.T) {
		service := &ExtendOrderService{
			plans:    &fakePlanFinder{plan: plan},
			payments: &fakeSystemAccountFinder{err: common.ErrNotFound},
			qr:       payment.NewVietQRGenerator("https://img.vietqr.io/image"),
		}

		_, err := service.Quote(ctx, plan.ID)
		require.Error(t, err)
		var appErr *common.Error
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, common.StatusBadRequest, appErr.StatusCode)
	})

	t.Run("gói không tồn tại", func(t *testing.T) {
		service := &ExtendOrderService{
			plans:    &fakePlanFinder{plan: plan},
			payments: &fakeSystemAccountFinder{account: account},
			qr:       payment.NewVietQRGenerator("https://img.vietqr.io/image"),
		}

		_, err := service.Quote(ctx, primitive.NewObjectID())
		assert.ErrorIs(t, err, common.ErrNotFound)
	})
}
