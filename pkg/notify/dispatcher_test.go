package notify

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap/zapcore"

	"liyu1981.xyz/safezone-service/pkg/common"
	"liyu1981.xyz/safezone-service/pkg/notify/mocks"
	_ "liyu1981.xyz/safezone-service/pkg/testing"
)

func TestSendEmailAlertSingleCall(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	email := mocks.NewMockEmailSender(ctrl)
	d := NewDispatcher(DispatcherOpts{Email: email, EmailFrom: "alerts@safezone.example"})

	recipients := []string{"a@x.com", "b@x.com"}
	email.EXPECT().
		SendEmail(gomock.Any(), "alerts@safezone.example", recipients, gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, from string, to []string, subject, html string) error {
			_, hasDeadline := ctx.Deadline()
			assert.True(t, hasDeadline)
			assert.Contains(t, subject, "Maria")
			assert.Contains(t, html, "Blue watch")
			return nil
		}).
		Times(1)

	assert.NoError(t, d.SendEmailAlert(context.Background(), recipients, sampleAlert()))
}

func TestSendEmailAlertNoRecipients(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	email := mocks.NewMockEmailSender(ctrl)
	d := NewDispatcher(DispatcherOpts{Email: email})

	assert.NoError(t, d.SendEmailAlert(context.Background(), nil, sampleAlert()))
}

func TestSendEmailAlertFailureIsReturnedAndLogged(t *testing.T) {
	var buf bytes.Buffer
	common.SetTestCaptureLogger(&buf, zapcore.InfoLevel)

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	email := mocks.NewMockEmailSender(ctrl)
	d := NewDispatcher(DispatcherOpts{Email: email})

	email.EXPECT().SendEmail(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(errors.New("provider down"))

	err := d.SendEmailAlert(context.Background(), []string{"a@x.com"}, sampleAlert())
	assert.ErrorContains(t, err, "provider down")
	assert.Contains(t, buf.String(), "Email alert failed")
}

func TestSendEmailAlertWithoutTransport(t *testing.T) {
	common.SetTestLoggerNop()

	d := NewDispatcher(DispatcherOpts{})
	err := d.SendEmailAlert(context.Background(), []string{"a@x.com"}, sampleAlert())
	assert.ErrorIs(t, err, ErrTransportNotConfigured)
}

func TestSendWhatsAppAlertOneCallPerRecipient(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	whatsApp := mocks.NewMockWhatsAppSender(ctrl)
	d := NewDispatcher(DispatcherOpts{WhatsApp: whatsApp})

	var (
		mu     sync.Mutex
		phones []string
	)
	whatsApp.EXPECT().SendWhatsAppMessage(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, phone, text string) error {
			mu.Lock()
			defer mu.Unlock()
			phones = append(phones, phone)
			assert.Contains(t, text, "Maria")
			return nil
		}).
		Times(3)

	recipients := []string{"+5511999999999", "+5511888888888", "+5511777777777"}
	assert.NoError(t, d.SendWhatsAppAlert(context.Background(), recipients, sampleAlert()))
	assert.ElementsMatch(t, recipients, phones)
}

func TestSendWhatsAppAlertFailureDoesNotStopOthers(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	whatsApp := mocks.NewMockWhatsAppSender(ctrl)
	d := NewDispatcher(DispatcherOpts{WhatsApp: whatsApp})

	whatsApp.EXPECT().SendWhatsAppMessage(gomock.Any(), "+1", gomock.Any()).Return(errors.New("invalid number"))
	whatsApp.EXPECT().SendWhatsAppMessage(gomock.Any(), "+2", gomock.Any()).Return(nil)
	whatsApp.EXPECT().SendWhatsAppMessage(gomock.Any(), "+3", gomock.Any()).Return(nil)

	err := d.SendWhatsAppAlert(context.Background(), []string{"+1", "+2", "+3"}, sampleAlert())

	var partial *PartialDeliveryError
	assert.ErrorAs(t, err, &partial)
	assert.Equal(t, 2, partial.Sent)
	assert.ErrorContains(t, err, "invalid number")
}

func TestSendWhatsAppAlertAllFail(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	whatsApp := mocks.NewMockWhatsAppSender(ctrl)
	d := NewDispatcher(DispatcherOpts{WhatsApp: whatsApp})

	whatsApp.EXPECT().SendWhatsAppMessage(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(errors.New("rejected")).Times(2)

	err := d.SendWhatsAppAlert(context.Background(), []string{"+1", "+2"}, sampleAlert())
	assert.Error(t, err)

	var partial *PartialDeliveryError
	assert.False(t, errors.As(err, &partial))
}

func TestSendWhatsAppAlertTimeoutIsFailure(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	whatsApp := mocks.NewMockWhatsAppSender(ctrl)
	d := NewDispatcher(DispatcherOpts{WhatsApp: whatsApp, Timeout: 20 * time.Millisecond})

	whatsApp.EXPECT().SendWhatsAppMessage(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, _, _ string) error {
			<-ctx.Done()
			return ctx.Err()
		})

	err := d.SendWhatsAppAlert(context.Background(), []string{"+1"}, sampleAlert())
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
