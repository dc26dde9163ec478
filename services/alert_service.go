// services/alert_service.go
package services

import (
	"fmt"
	"os"
	"time"

	"restopos-backend/models"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AlertService runs the scheduled housekeeping: the daily low-stock
// sweep (SMS to the business contact plus a low-stock event) and the
// license expiry sweep.
type AlertService struct {
	db       *gorm.DB
	notifier Notifier
	client   *twilio.RestClient
	log      *zap.Logger
}

func NewAlertService(db *gorm.DB, notifier Notifier, log *zap.Logger) *AlertService {
	accountSid := os.Getenv("TWILIO_ACCOUNT_SID")
	authToken := os.Getenv("TWILIO_AUTH_TOKEN")

	return &AlertService{
		db:       db,
		notifier: notifier,
		log:      log,
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSid,
			Password: authToken,
		}),
	}
}

func (s *AlertService) StartScheduler() *cron.Cron {
	c := cron.New()

	// Low-stock sweep, daily at 8 AM
	c.AddFunc("0 8 * * *", s.ProcessStockAlerts)

	// License expiry sweep, daily just after midnight
	c.AddFunc("10 0 * * *", s.ExpireLicenses)

	c.Start()
	return c
}

func (s *AlertService) ProcessStockAlerts() {
	s.log.Info("daily stock alert sweep started")

	var businesses []models.Business
	if err := s.db.Where("stock_alerts = ?", true).Find(&businesses).Error; err != nil {
		s.log.Error("failed to list businesses", zap.Error(err))
		return
	}

	for _, business := range businesses {
		s.ProcessBusinessStock(business)
	}

	s.log.Info("daily stock alert sweep completed")
}

func (s *AlertService) ProcessBusinessStock(business models.Business) {
	var low []models.Inventory
	err := s.db.Where("business_id = ? AND quantity <= min_stock", business.ID).
		Find(&low).Error
	if err != nil {
		s.log.Error("failed to query low stock",
			zap.String("business", business.ID.String()), zap.Error(err))
		return
	}
	if len(low) == 0 {
		return
	}

	s.notifier.Publish(business.ID, EventLowStock, map[string]interface{}{
		"count": len(low),
		"items": low,
	})

	if !business.SMSAlerts || business.Phone == "" {
		for _, item := range low {
			s.recordAlert(business.ID, item, "event", "sent", "")
		}
		return
	}

	for _, item := range low {
		message := fmt.Sprintf("%s: stock low for %s (%.2f %s, minimum %.2f)",
			business.Name, item.Name, item.Quantity, item.Unit, item.MinStock)

		params := &twilioApi.CreateMessageParams{}
		params.SetTo(business.Phone)
		params.SetFrom(os.Getenv("TWILIO_FROM_NUMBER"))
		params.SetBody(message)

		status := "sent"
		errorMsg := ""
		resp, err := s.client.Api.CreateMessage(params)
		if err != nil {
			s.log.Warn("failed to send stock SMS",
				zap.String("business", business.ID.String()), zap.Error(err))
			status = "failed"
			errorMsg = err.Error()
		} else if resp.Sid != nil {
			s.log.Info("stock SMS sent",
				zap.String("business", business.ID.String()), zap.String("sid", *resp.Sid))
		}

		s.recordAlert(business.ID, item, "sms", status, errorMsg)
	}
}

func (s *AlertService) recordAlert(businessID uuid.UUID, item models.Inventory, channel, status, errorMsg string) {
	alert := models.StockAlert{
		BusinessID:   businessID,
		InventoryID:  item.ID,
		Quantity:     item.Quantity,
		MinStock:     item.MinStock,
		Channel:      channel,
		Status:       status,
		ErrorMessage: errorMsg,
		SentAt:       time.Now(),
	}
	if err := s.db.Create(&alert).Error; err != nil {
		s.log.Error("failed to record stock alert", zap.Error(err))
	}
}

// ExpireLicenses flips ACTIVE licenses whose validity window has ended.
func (s *AlertService) ExpireLicenses() {
	result := s.db.Model(&models.License{}).
		Where("status = ? AND end_date < ?", models.LicenseActive, time.Now()).
		Update("status", models.LicenseExpired)
	if result.Error != nil {
		s.log.Error("license expiry sweep failed", zap.Error(result.Error))
		return
	}
	if result.RowsAffected > 0 {
		s.log.Info("licenses expired", zap.Int64("count", result.RowsAffected))
	}
}
