package offer

import (
	"context"
	"errors"
	"strings"
	"time"

	"gfuture/internal/apperr"
	"gfuture/internal/auth"
	"gfuture/internal/discount"
	"gfuture/internal/money"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

type Service interface {
	List(ctx context.Context, target string) ([]Offer, error)
	Apply(ctx context.Context, who auth.Identity, req ApplyRequest) (*ApplyResult, error)
	ListMine(ctx context.Context, providerID string) ([]Offer, error)
	Create(ctx context.Context, providerID string, req CreateOfferRequest) (*Offer, error)
	Update(ctx context.Context, providerID string, id int64, patch OfferPatch) (*Offer, error)
	Delete(ctx context.Context, providerID string, id int64) error
}

type service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) Service {
	return &service{repo: repo, now: time.Now}
}

func (s *service) List(ctx context.Context, target string) ([]Offer, error) {
	if target != "" && !discount.Target(target).Valid() {
		return nil, apperr.Validation("target must be one of: customer provider both")
	}
	return s.repo.ListActive(ctx, target)
}

// Apply prices a coupon against an order amount. Unlike order creation it
// reports unknown and ineligible coupons as errors.
func (s *service) Apply(ctx context.Context, who auth.Identity, req ApplyRequest) (*ApplyResult, error) {
	subtotal := req.amount()
	if !subtotal.IsPositive() {
		return nil, apperr.Validation("Valid subtotal is required")
	}

	o, err := s.repo.FindActiveByCode(ctx, req.Code)
	if errors.Is(err, ErrOfferNotFound) {
		return nil, apperr.NotFound("Invalid or expired coupon code")
	}
	if err != nil {
		return nil, err
	}

	q, err := discount.NewQuote(subtotal, o.Terms(), who.Role, s.now())
	if err != nil {
		return nil, apperr.CouponIneligible(err)
	}

	return &ApplyResult{
		Valid:          true,
		Offer:          o,
		DiscountAmount: q.Discount,
		Discount:       q.Discount,
		Subtotal:       q.Subtotal,
		FinalTotal:     q.Total,
	}, nil
}

func (s *service) ListMine(ctx context.Context, providerID string) ([]Offer, error) {
	return s.repo.ListByProvider(ctx, providerID)
}

func (s *service) Create(ctx context.Context, providerID string, req CreateOfferRequest) (*Offer, error) {
	target := discount.Target(req.Target)
	if target == "" {
		target = discount.TargetCustomer
	}

	o := &Offer{
		ProviderID:      &providerID,
		Title:           strings.TrimSpace(req.Title),
		Description:     req.Description,
		DiscountPercent: req.DiscountPercent,
		DiscountFlat:    money.Round2(req.DiscountFlat),
		Code:            normalizeCode(&req.Code),
		Target:          target,
		Image:           optionalString(req.Image),
		Badge:           optionalString(req.Badge),
		ValidFrom:       req.ValidFrom,
		ValidUntil:      req.ValidUntil,
		Active:          true,
		SortOrder:       req.SortOrder,
	}
	if err := validateOffer(o); err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, o)
	if errors.Is(err, ErrDuplicateCode) {
		return nil, apperr.Conflict("Coupon code already exists")
	}
	return created, err
}

func (s *service) Update(ctx context.Context, providerID string, id int64, patch OfferPatch) (*Offer, error) {
	o, err := s.owned(ctx, providerID, id)
	if err != nil {
		return nil, err
	}

	patch.Apply(o)
	o.DiscountFlat = money.Round2(o.DiscountFlat)
	if err := validateOffer(o); err != nil {
		return nil, err
	}

	updated, err := s.repo.Update(ctx, o)
	switch {
	case errors.Is(err, ErrOfferNotFound):
		return nil, apperr.NotFound("Offer not found")
	case errors.Is(err, ErrDuplicateCode):
		return nil, apperr.Conflict("Coupon code already exists")
	}
	return updated, err
}

func (s *service) Delete(ctx context.Context, providerID string, id int64) error {
	deleted, err := s.repo.Delete(ctx, id, providerID)
	if err != nil {
		return err
	}
	if !deleted {
		return apperr.NotFound("Offer not found")
	}
	return nil
}

func (s *service) owned(ctx context.Context, providerID string, id int64) (*Offer, error) {
	o, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, ErrOfferNotFound) {
		return nil, apperr.NotFound("Offer not found")
	}
	if err != nil {
		return nil, err
	}
	if o.ProviderID == nil || *o.ProviderID != providerID {
		return nil, apperr.Forbidden("You can only manage your own offers")
	}
	return o, nil
}

func validateOffer(o *Offer) error {
	switch {
	case o.Title == "":
		return apperr.Validation("title is required")
	case o.DiscountPercent.IsNegative() || o.DiscountPercent.GreaterThan(hundred):
		return apperr.Validation("discount_percent must be between 0 and 100")
	case o.DiscountFlat.IsNegative():
		return apperr.Validation("discount_flat must not be negative")
	case !o.Target.Valid():
		return apperr.Validation("target must be one of: customer provider both")
	case o.ValidFrom != nil && o.ValidUntil != nil && o.ValidUntil.Before(*o.ValidFrom):
		return apperr.Validation("valid_until must be after valid_from")
	}
	return nil
}

// normalizeCode upper-cases a coupon code. Blank codes are stored as NULL.
func normalizeCode(code *string) *string {
	if code == nil {
		return nil
	}
	c := strings.ToUpper(strings.TrimSpace(*code))
	if c == "" {
		return nil
	}
	return &c
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
