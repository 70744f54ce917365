package models

import "strings"

type PlanTier string

const (
	TierFree       PlanTier = "free"
	TierPremium    PlanTier = "premium"
	TierEnterprise PlanTier = "enterprise"
)

// ParseTier maps a plan name ("Premium", "free", ...) to a tier. Unknown
// names fall back to free, like the server does.
func ParseTier(name string) PlanTier {
	switch PlanTier(strings.ToLower(strings.TrimSpace(name))) {
	case TierPremium:
		return TierPremium
	case TierEnterprise:
		return TierEnterprise
	default:
		return TierFree
	}
}

func (t PlanTier) Valid() bool {
	return t == TierFree || t == TierPremium || t == TierEnterprise
}

type ButtonState struct {
	Disabled bool   `json:"disabled"`
	Label    string `json:"label"`
}

type PlanButtons struct {
	Free       ButtonState `json:"free"`
	Premium    ButtonState `json:"premium"`
	Enterprise ButtonState `json:"enterprise"`
}

// For returns the button of a tier.
func (b PlanButtons) For(t PlanTier) ButtonState {
	switch t {
	case TierPremium:
		return b.Premium
	case TierEnterprise:
		return b.Enterprise
	default:
		return b.Free
	}
}

type UpgradeRequest struct {
	Plan PlanTier `json:"plan" binding:"required"`
}

// UpgradeResponse - POST /api/subscription/upgrade; Link is set for paid tiers
type UpgradeResponse struct {
	Message string `json:"message,omitempty"`
	Link    string `json:"link,omitempty"`
	Plan    *Plan  `json:"plan,omitempty"`
}

// PlanChange is the outcome of a tier change request. Exactly one of
// Downgraded and RedirectURL is meaningful.
type PlanChange struct {
	Tier        PlanTier `json:"tier"`
	Downgraded  bool     `json:"downgraded"`
	RedirectURL string   `json:"redirect_url,omitempty"`
	Message     string   `json:"message"`
}
