package service

import (
	"strconv"

	"kuruma/internal/domain"
	"kuruma/internal/repository"
	"kuruma/internal/workflow"
)

// SettingsService turns admin-managed key/value settings into the injected
// checkout options each workflow variant runs with.
type SettingsService struct {
	repo *repository.SettingRepository
}

func NewSettingsService(repo *repository.SettingRepository) *SettingsService {
	return &SettingsService{repo: repo}
}

// Defaults seeded on first boot. Deposits never offer the wallet rail: a
// wallet cannot top itself up.
func (s *SettingsService) SeedDefaults() error {
	return s.repo.SeedDefaults(map[string]string{
		domain.SettingOrderWalletEnabled:    "true",
		domain.SettingOrderAgentEnabled:     "true",
		domain.SettingDepositAgentEnabled:   "true",
		domain.SettingGiveawayWalletEnabled: "true",
		domain.SettingGiveawayAgentEnabled:  "true",
		domain.SettingGiveawayFeeCents:      "500000", // ¥5,000
	})
}

// CheckoutOptions resolves the options for one workflow variant. Missing or
// malformed settings fall back to the boot defaults.
func (s *SettingsService) CheckoutOptions(kind workflow.Kind) workflow.Options {
	switch kind {
	case workflow.KindDeposit:
		return workflow.Options{
			WalletEnabled: false,
			AgentEnabled:  s.boolSetting(domain.SettingDepositAgentEnabled, true),
		}
	case workflow.KindGiveaway:
		return workflow.Options{
			WalletEnabled: s.boolSetting(domain.SettingGiveawayWalletEnabled, true),
			AgentEnabled:  s.boolSetting(domain.SettingGiveawayAgentEnabled, true),
			FeeCents:      s.intSetting(domain.SettingGiveawayFeeCents, 500000),
		}
	default:
		return workflow.Options{
			WalletEnabled: s.boolSetting(domain.SettingOrderWalletEnabled, true),
			AgentEnabled:  s.boolSetting(domain.SettingOrderAgentEnabled, true),
		}
	}
}

func (s *SettingsService) boolSetting(key string, fallback bool) bool {
	v, err := s.repo.Get(key)
	if err != nil {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func (s *SettingsService) intSetting(key string, fallback int64) int64 {
	v, err := s.repo.Get(key)
	if err != nil {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return fallback
	}
	return n
}
