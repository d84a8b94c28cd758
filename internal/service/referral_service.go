package service

import (
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"redlink/internal/domain"
	"redlink/internal/models"

	"gorm.io/gorm"
)

var (
	ErrInvalidReferrer  = errors.New("invalid referrer")
	ErrReferrerNotFound = errors.New("referrer not found")
	ErrAlreadyReferred  = errors.New("user already has a referrer")
)

// Narrow store interfaces so the ledger can be exercised without a live
// database; the gorm repositories satisfy them.
type referralStore interface {
	CreateTracking(t *models.ReferralTracking) error
	GetTrackingByReferred(referredUsername string) (*models.ReferralTracking, error)
	MarkConvertedPro(referredUsername string) (bool, error)
	ListTrackingByReferrer(referrerUsername string) ([]models.ReferralTracking, error)
	CreateEarning(e *models.ReferralEarning) error
	ListEarnings(referrerUsername string) ([]models.ReferralEarning, error)
	SumEarnings(referrerUsername string) (int64, error)
}

type userLookup interface {
	GetByUsername(username string) (*models.User, error)
}

type settingLookup interface {
	Get(key string) (string, error)
}

type balanceCreditor interface {
	Credit(username string, amount int64) error
}

// ReferralService records and tallies commission-bearing events tied to a
// referrer/referred relationship.
type ReferralService struct {
	referrals referralStore
	users     userLookup
	settings  settingLookup
	balances  balanceCreditor
}

func NewReferralService(referrals referralStore, users userLookup, settings settingLookup, balances balanceCreditor) *ReferralService {
	return &ReferralService{referrals: referrals, users: users, settings: settings, balances: balances}
}

// TrackReferral records that referrer brought in referred and credits the
// flat signup bonus (30% of the free-signup base value). At most one
// tracking row ever exists per referred user.
func (s *ReferralService) TrackReferral(referredUsername, referrerUsername string) (*models.ReferralTracking, error) {
	if referrerUsername == "" || referrerUsername == referredUsername {
		return nil, ErrInvalidReferrer
	}
	if _, err := s.users.GetByUsername(referrerUsername); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReferrerNotFound
		}
		return nil, err
	}
	if _, err := s.referrals.GetTrackingByReferred(referredUsername); err == nil {
		return nil, ErrAlreadyReferred
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	t := &models.ReferralTracking{
		ReferrerUsername: referrerUsername,
		ReferredUsername: referredUsername,
		ConversionStatus: domain.ConversionFree,
		ConvertedAt:      time.Now(),
	}
	if err := s.referrals.CreateTracking(t); err != nil {
		return nil, err
	}

	base := s.freeSignupValue()
	amount := ComputeCommission(base, domain.CommissionRateFree)
	if err := s.recordEarning(referrerUsername, referredUsername, domain.PlanFree, amount, 30); err != nil {
		log.Printf("[referral] failed to record signup earning for %s: %v", referrerUsername, err)
	}
	return t, nil
}

// UpgradeResult reports whether a Pro upgrade produced a referral credit.
type UpgradeResult struct {
	Credited bool   `json:"credited"`
	Referrer string `json:"referrer,omitempty"`
	Amount   int64  `json:"amount,omitempty"`
}

// ProcessProUpgrade credits the referrer 50% of the Pro price, exactly once.
// The status flip is a single conditional update; the earning row is only
// written by the call that won the flip, so concurrent confirmations for
// the same user cannot double-credit.
func (s *ReferralService) ProcessProUpgrade(username string, price int64) (*UpgradeResult, error) {
	t, err := s.referrals.GetTrackingByReferred(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &UpgradeResult{Credited: false}, nil
		}
		return nil, err
	}
	if t.ConversionStatus == domain.ConversionPro {
		return &UpgradeResult{Credited: false}, nil
	}
	moved, err := s.referrals.MarkConvertedPro(username)
	if err != nil {
		return nil, err
	}
	if !moved {
		// Lost the race to another confirmation; nothing more to do.
		return &UpgradeResult{Credited: false}, nil
	}
	amount := ComputeCommission(price, domain.CommissionRatePro)
	if err := s.recordEarning(t.ReferrerUsername, username, domain.PlanPro, amount, 50); err != nil {
		return nil, err
	}
	return &UpgradeResult{Credited: true, Referrer: t.ReferrerUsername, Amount: amount}, nil
}

// ReferralStats aggregates a referrer's totals for the dashboard.
type ReferralStats struct {
	TotalReferred  int                       `json:"total_referred"`
	ProConversions int                       `json:"pro_conversions"`
	TotalEarnings  int64                     `json:"total_earnings"`
	ReferredUsers  []models.ReferralTracking `json:"referred_users"`
}

func (s *ReferralService) Stats(username string) (*ReferralStats, error) {
	referred, err := s.referrals.ListTrackingByReferrer(username)
	if err != nil {
		return nil, err
	}
	total, err := s.referrals.SumEarnings(username)
	if err != nil {
		return nil, err
	}
	proCount := 0
	for _, t := range referred {
		if t.ConversionStatus == domain.ConversionPro {
			proCount++
		}
	}
	return &ReferralStats{
		TotalReferred:  len(referred),
		ProConversions: proCount,
		TotalEarnings:  total,
		ReferredUsers:  referred,
	}, nil
}

func (s *ReferralService) Earnings(username string) ([]models.ReferralEarning, error) {
	return s.referrals.ListEarnings(username)
}

func (s *ReferralService) recordEarning(referrer, referred, plan string, amount int64, percentage int) error {
	err := s.referrals.CreateEarning(&models.ReferralEarning{
		ReferrerUsername:  referrer,
		ReferredUsername:  referred,
		ReferredPlan:      plan,
		EarningAmount:     amount,
		EarningPercentage: percentage,
		Status:            domain.EarningStatusPending,
		Notes:             fmt.Sprintf("Referral earning from %s (%s plan)", referred, plan),
	})
	if err != nil {
		return err
	}
	if s.balances != nil {
		if err := s.balances.Credit(referrer, amount); err != nil {
			log.Printf("[referral] failed to credit balance for %s: %v", referrer, err)
		}
	}
	return nil
}

func (s *ReferralService) freeSignupValue() int64 {
	if s.settings == nil {
		return domain.DefaultFreeSignupValue
	}
	val, err := s.settings.Get(domain.SettingFreeSignupValue)
	if err != nil || val == "" {
		return domain.DefaultFreeSignupValue
	}
	n, err := strconv.ParseInt(val, 10, 64)
	if err != nil || n <= 0 {
		return domain.DefaultFreeSignupValue
	}
	return n
}
