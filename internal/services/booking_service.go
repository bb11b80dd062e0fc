package services

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/wheelorent/car-rental-backend/internal/models"
)

// CarStore is the car persistence surface the booking flow needs.
type CarStore interface {
	GetByID(carID uuid.UUID) (*models.Car, error)
	ListAvailable() ([]models.Car, error)
	ListAvailableByLocation(location string) ([]models.Car, error)
}

// BookingStore is the booking persistence surface the booking flow needs.
type BookingStore interface {
	HasOverlap(carID uuid.UUID, pickup, ret time.Time) (bool, error)
	CreateIfAvailable(booking *models.Booking) error
	GetByID(bookingID uuid.UUID) (*models.Booking, error)
	UpdateStatus(bookingID uuid.UUID, from, to models.BookingStatus, paymentStatus models.PaymentStatus) error
	ListPendingPaidBefore(cutoff time.Time, limit int) ([]models.Booking, error)
	BookedCarIDs(start, end time.Time) ([]uuid.UUID, error)
}

// PaymentProcessor is the external processor surface: reserve a charge,
// re-verify it, refund it.
type PaymentProcessor interface {
	CreatePaymentIntent(amountCents int64, meta IntentMetadata) (*PaymentIntent, error)
	RetrievePaymentIntent(intentID string) (*PaymentIntent, error)
	CreateRefund(intentID string) (*Refund, error)
}

// PaymentAuditor records payment events best-effort; implementations must
// never fail the operation being audited.
type PaymentAuditor interface {
	Record(audit *models.PaymentAudit)
}

// BookingService drives the booking lifecycle: payment intent issue,
// payment confirmation, and owner/admin status transitions.
type BookingService struct {
	cars      CarStore
	bookings  BookingStore
	processor PaymentProcessor
	auditor   PaymentAuditor
	logger    *logrus.Logger
}

// NewBookingService creates a new BookingService
func NewBookingService(
	cars CarStore,
	bookings BookingStore,
	processor PaymentProcessor,
	auditor PaymentAuditor,
	logger *logrus.Logger,
) *BookingService {
	return &BookingService{
		cars:      cars,
		bookings:  bookings,
		processor: processor,
		auditor:   auditor,
		logger:    logger,
	}
}

// CreatePaymentIntent validates the request, checks availability, and
// reserves the charge with the processor. No booking record is created
// here: a booking only exists once payment is confirmed, so abandoned
// payments leave nothing behind.
func (s *BookingService) CreatePaymentIntent(userID uuid.UUID, req *models.CreatePaymentIntentRequest) (*models.PaymentIntentResponse, error) {
	carID, err := uuid.Parse(req.CarID)
	if err != nil {
		return nil, models.ErrCarNotFound
	}

	pickup, ret, err := models.ParseDateRange(req.PickupDate, req.ReturnDate)
	if err != nil {
		return nil, err
	}

	car, err := s.cars.GetByID(carID)
	if err != nil {
		return nil, err
	}
	if !car.IsAvailable || car.OwnerID == nil {
		return nil, models.ErrCarNotAvailable
	}

	overlap, err := s.bookings.HasOverlap(carID, pickup, ret)
	if err != nil {
		return nil, err
	}
	if overlap {
		return nil, models.ErrCarNotAvailable
	}

	days := RentalDays(pickup, ret)
	priceCents := RentalPrice(pickup, ret, car.PricePerDayCents)

	intent, err := s.processor.CreatePaymentIntent(priceCents, IntentMetadata{
		CarID:      carID.String(),
		UserID:     userID.String(),
		PickupDate: req.PickupDate,
		ReturnDate: req.ReturnDate,
		Days:       days,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create payment intent: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"user_id":     userID,
		"car_id":      carID,
		"price_cents": priceCents,
		"days":        days,
		"intent_id":   intent.ID,
	}).Info("Payment intent created")

	s.audit(models.NewPaymentAudit(models.PaymentEventIntentCreated, models.PaymentSourceBackend).
		SetUser(userID).SetIntent(intent.ID).SetAmount(priceCents))

	return &models.PaymentIntentResponse{
		ClientSecret: intent.ClientSecret,
		PriceCents:   priceCents,
		Days:         days,
	}, nil
}

// ConfirmPayment runs the confirmation gates strictly in order: date
// re-validation, availability re-check, processor-side intent
// verification, price recomputation from the current car rate, then the
// guarded persist. Every gate is hard; no booking exists unless all pass.
func (s *BookingService) ConfirmPayment(userID uuid.UUID, req *models.ConfirmPaymentRequest) (*models.Booking, error) {
	carID, err := uuid.Parse(req.CarID)
	if err != nil {
		return nil, models.ErrCarNotFound
	}

	// Gate 1: client-supplied dates may differ from intent creation time.
	pickup, ret, err := models.ParseDateRange(req.PickupDate, req.ReturnDate)
	if err != nil {
		return nil, err
	}

	car, err := s.cars.GetByID(carID)
	if err != nil {
		return nil, err
	}
	if car.OwnerID == nil {
		return nil, models.ErrCarNotAvailable
	}

	// Gate 2: re-check availability to shrink the window between intent
	// creation and confirmation. The guarded insert below closes it.
	overlap, err := s.bookings.HasOverlap(carID, pickup, ret)
	if err != nil {
		return nil, err
	}
	if overlap {
		return nil, models.ErrCarNotAvailable
	}

	// Gate 3: the processor must report funds captured.
	intent, err := s.processor.RetrievePaymentIntent(req.PaymentIntentID)
	if err != nil {
		s.auditConfirmFailure(userID, req.PaymentIntentID, err)
		return nil, fmt.Errorf("failed to verify payment: %w", err)
	}
	if intent.Status != IntentStatusSucceeded {
		s.auditConfirmFailure(userID, req.PaymentIntentID, models.ErrPaymentNotCompleted)
		return nil, models.ErrPaymentNotCompleted
	}

	// Gate 4: recompute the price from the current car rate; the client
	// never supplies one.
	priceCents := RentalPrice(pickup, ret, car.PricePerDayCents)

	intentID := intent.ID
	booking := &models.Booking{
		CarID:           carID,
		UserID:          userID,
		OwnerID:         *car.OwnerID,
		PickupDate:      pickup,
		ReturnDate:      ret,
		PriceCents:      priceCents,
		Status:          models.BookingStatusPending,
		PaymentStatus:   models.PaymentStatusCompleted,
		PaymentIntentID: &intentID,
	}

	// Gate 5: guarded insert; a racing confirmation for an overlapping
	// range loses here with the availability-conflict kind.
	if err := s.bookings.CreateIfAvailable(booking); err != nil {
		s.auditConfirmFailure(userID, intentID, err)
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"booking_id":  booking.ID,
		"user_id":     userID,
		"car_id":      carID,
		"price_cents": priceCents,
	}).Info("Booking created, awaiting owner confirmation")

	s.audit(models.NewPaymentAudit(models.PaymentEventConfirmSuccess, models.PaymentSourceBackend).
		SetBooking(booking.ID).SetUser(userID).SetIntent(intentID).SetAmount(priceCents))

	return booking, nil
}

// ChangeStatus applies an owner-driven (or admin-override) status
// transition. Cancelling a paid booking refunds first; if the refund does
// not go through, the booking keeps its previous status so it never shows
// cancelled while the money was kept.
func (s *BookingService) ChangeStatus(actorID uuid.UUID, isAdmin bool, req *models.ChangeStatusRequest) (*models.Booking, error) {
	bookingID, err := uuid.Parse(req.BookingID)
	if err != nil {
		return nil, models.ErrBookingNotFound
	}

	booking, err := s.bookings.GetByID(bookingID)
	if err != nil {
		return nil, err
	}

	if booking.OwnerID != actorID && !isAdmin {
		return nil, models.ErrNotBookingOwner
	}

	target := models.BookingStatus(req.Status)
	if !target.IsValid() || !booking.Status.CanTransitionTo(target) {
		return nil, models.ErrInvalidTransition
	}

	paymentStatus := booking.PaymentStatus
	if target == models.BookingStatusCancelled &&
		booking.PaymentStatus == models.PaymentStatusCompleted &&
		booking.PaymentIntentID != nil {
		if err := s.refund(booking); err != nil {
			return nil, err
		}
		paymentStatus = models.PaymentStatusRefunded
	}

	if err := s.bookings.UpdateStatus(bookingID, booking.Status, target, paymentStatus); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"booking_id": bookingID,
		"from":       booking.Status,
		"to":         target,
		"actor_id":   actorID,
		"admin":      isAdmin,
	}).Info("Booking status changed")

	booking.Status = target
	booking.PaymentStatus = paymentStatus
	return booking, nil
}

// refund attempts a full refund against the stored intent id. Succeeded
// and pending both count as initiated; anything else is ErrRefundFailed.
func (s *BookingService) refund(booking *models.Booking) error {
	intentID := *booking.PaymentIntentID

	s.audit(models.NewPaymentAudit(models.PaymentEventRefundInitiated, models.PaymentSourceBackend).
		SetBooking(booking.ID).SetIntent(intentID).SetAmount(booking.PriceCents))

	refund, err := s.processor.CreateRefund(intentID)
	if err != nil {
		s.logger.WithError(err).WithField("booking_id", booking.ID).Warn("Refund call failed")
		s.audit(models.NewPaymentAudit(models.PaymentEventRefundFailed, models.PaymentSourceBackend).
			SetBooking(booking.ID).SetIntent(intentID).SetError(err.Error()))
		return fmt.Errorf("%w: %v", models.ErrRefundFailed, err)
	}
	if !refund.Succeeded() {
		s.logger.WithFields(logrus.Fields{
			"booking_id":    booking.ID,
			"refund_status": refund.Status,
		}).Warn("Refund not accepted by processor")
		s.audit(models.NewPaymentAudit(models.PaymentEventRefundFailed, models.PaymentSourceBackend).
			SetBooking(booking.ID).SetIntent(intentID).SetError("refund status: "+refund.Status))
		return models.ErrRefundFailed
	}

	s.audit(models.NewPaymentAudit(models.PaymentEventRefundCompleted, models.PaymentSourceBackend).
		SetBooking(booking.ID).SetIntent(intentID).SetAmount(booking.PriceCents))

	return nil
}

func (s *BookingService) auditConfirmFailure(userID uuid.UUID, intentID string, cause error) {
	s.audit(models.NewPaymentAudit(models.PaymentEventConfirmFailed, models.PaymentSourceBackend).
		SetUser(userID).SetIntent(intentID).SetError(cause.Error()))
}

func (s *BookingService) audit(entry *models.PaymentAudit) {
	if s.auditor != nil {
		s.auditor.Record(entry)
	}
}
