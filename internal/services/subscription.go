package services

import (
	"context"
	"fmt"
	"strings"

	errorvalues "journal-dashboard/internal/error_values"
	"journal-dashboard/internal/models"
)

const (
	labelCurrentPlan     = "Current Plan"
	labelDowngrade       = "Downgrade"
	labelDowngradeToFree = "Downgrade to Free"
)

func defaultButtons() models.PlanButtons {
	return models.PlanButtons{
		Free:       models.ButtonState{Label: "Free Plan"},
		Premium:    models.ButtonState{Label: "Upgrade to Premium"},
		Enterprise: models.ButtonState{Label: "Upgrade to Enterprise"},
	}
}

// PresentButtons derives the subscription buttons from the active tier.
// The active, non-expired tier is disabled as "Current Plan". An expired
// paid tier disables nothing and offers "Downgrade to Free".
func PresentButtons(tier models.PlanTier, expired bool) models.PlanButtons {
	b := defaultButtons()
	current := models.ButtonState{Disabled: true, Label: labelCurrentPlan}

	switch tier {
	case models.TierPremium:
		if expired {
			b.Free.Label = labelDowngradeToFree
			return b
		}
		b.Premium = current
		b.Free.Label = labelDowngrade
	case models.TierEnterprise:
		if expired {
			b.Free.Label = labelDowngradeToFree
			return b
		}
		b.Enterprise = current
		b.Free.Label = labelDowngrade
		b.Premium.Label = labelDowngrade
	default:
		b.Free = current
	}
	return b
}

// PlanChanger posts tier change requests.
type PlanChanger interface {
	ChangePlan(ctx context.Context, tier models.PlanTier) (*models.UpgradeResponse, error)
}

type SubscriptionService struct {
	api PlanChanger
}

func NewSubscriptionService(api PlanChanger) *SubscriptionService {
	return &SubscriptionService{api: api}
}

// Change requests target given the currently presented plan. A free request
// completes the downgrade; paid requests yield the payment link the caller
// has to navigate to.
func (s *SubscriptionService) Change(ctx context.Context, current models.PlanTier, expired bool, target models.PlanTier) (models.PlanChange, error) {
	if !target.Valid() {
		return models.PlanChange{}, fmt.Errorf("%w: unknown plan %q", errorvalues.ErrValidation, target)
	}
	button := PresentButtons(current, expired).For(target)
	if button.Disabled {
		return models.PlanChange{}, fmt.Errorf("%w: %s is already the current plan", errorvalues.ErrValidation, target)
	}
	if target == models.TierFree && !strings.Contains(button.Label, labelDowngrade) {
		return models.PlanChange{}, fmt.Errorf("%w: nothing to downgrade from", errorvalues.ErrValidation)
	}

	resp, err := s.api.ChangePlan(ctx, target)
	if err != nil {
		return models.PlanChange{}, err
	}

	if target == models.TierFree {
		return models.PlanChange{
			Tier:       target,
			Downgraded: true,
			Message:    "Your plan has been downgraded to Free.",
		}, nil
	}
	if strings.TrimSpace(resp.Link) == "" {
		return models.PlanChange{}, errorvalues.ErrNoPaymentLink
	}
	return models.PlanChange{
		Tier:        target,
		RedirectURL: resp.Link,
		Message:     "Redirecting to payment.",
	}, nil
}
