package service

import (
	"errors"
	"testing"

	"redlink/internal/domain"
	"redlink/internal/models"

	"gorm.io/gorm"
)

type fakeReferralStore struct {
	tracking map[string]*models.ReferralTracking // keyed by referred username
	earnings []models.ReferralEarning
}

func newFakeReferralStore() *fakeReferralStore {
	return &fakeReferralStore{tracking: make(map[string]*models.ReferralTracking)}
}

func (f *fakeReferralStore) CreateTracking(t *models.ReferralTracking) error {
	if _, ok := f.tracking[t.ReferredUsername]; ok {
		return gorm.ErrDuplicatedKey
	}
	f.tracking[t.ReferredUsername] = t
	return nil
}

func (f *fakeReferralStore) GetTrackingByReferred(referred string) (*models.ReferralTracking, error) {
	t, ok := f.tracking[referred]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return t, nil
}

func (f *fakeReferralStore) MarkConvertedPro(referred string) (bool, error) {
	t, ok := f.tracking[referred]
	if !ok || t.ConversionStatus != domain.ConversionFree {
		return false, nil
	}
	t.ConversionStatus = domain.ConversionPro
	return true, nil
}

func (f *fakeReferralStore) ListTrackingByReferrer(referrer string) ([]models.ReferralTracking, error) {
	var out []models.ReferralTracking
	for _, t := range f.tracking {
		if t.ReferrerUsername == referrer {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (f *fakeReferralStore) CreateEarning(e *models.ReferralEarning) error {
	f.earnings = append(f.earnings, *e)
	return nil
}

func (f *fakeReferralStore) ListEarnings(referrer string) ([]models.ReferralEarning, error) {
	var out []models.ReferralEarning
	for _, e := range f.earnings {
		if e.ReferrerUsername == referrer {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeReferralStore) SumEarnings(referrer string) (int64, error) {
	var sum int64
	for _, e := range f.earnings {
		if e.ReferrerUsername == referrer {
			sum += e.EarningAmount
		}
	}
	return sum, nil
}

type fakeUserLookup struct {
	users map[string]*models.User
}

func (f *fakeUserLookup) GetByUsername(username string) (*models.User, error) {
	u, ok := f.users[username]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

type fakeBalances struct {
	credits map[string]int64
}

func (f *fakeBalances) Credit(username string, amount int64) error {
	if f.credits == nil {
		f.credits = make(map[string]int64)
	}
	f.credits[username] += amount
	return nil
}

type fakeSettings map[string]string

func (f fakeSettings) Get(key string) (string, error) {
	v, ok := f[key]
	if !ok {
		return "", gorm.ErrRecordNotFound
	}
	return v, nil
}

func newTestReferralService() (*ReferralService, *fakeReferralStore, *fakeBalances) {
	store := newFakeReferralStore()
	users := &fakeUserLookup{users: map[string]*models.User{
		"alice": {Username: "alice", Plan: domain.PlanPro},
		"bob":   {Username: "bob", Plan: domain.PlanFree},
	}}
	balances := &fakeBalances{}
	svc := NewReferralService(store, users, fakeSettings{}, balances)
	return svc, store, balances
}

func TestTrackReferral(t *testing.T) {
	t.Run("records tracking and signup earning", func(t *testing.T) {
		svc, store, balances := newTestReferralService()
		tr, err := svc.TrackReferral("charlie", "alice")
		if err != nil {
			t.Fatalf("TrackReferral() error = %v", err)
		}
		if tr.ConversionStatus != domain.ConversionFree {
			t.Fatalf("conversion status = %q, want %q", tr.ConversionStatus, domain.ConversionFree)
		}
		if len(store.earnings) != 1 {
			t.Fatalf("earnings = %d, want 1", len(store.earnings))
		}
		e := store.earnings[0]
		if e.EarningAmount != 3000 || e.EarningPercentage != 30 {
			t.Fatalf("earning = %d at %d%%, want 3000 at 30%%", e.EarningAmount, e.EarningPercentage)
		}
		if balances.credits["alice"] != 3000 {
			t.Fatalf("balance credit = %d, want 3000", balances.credits["alice"])
		}
	})

	t.Run("uses configured signup value", func(t *testing.T) {
		store := newFakeReferralStore()
		users := &fakeUserLookup{users: map[string]*models.User{"alice": {Username: "alice"}}}
		svc := NewReferralService(store, users, fakeSettings{domain.SettingFreeSignupValue: "20000"}, nil)
		if _, err := svc.TrackReferral("charlie", "alice"); err != nil {
			t.Fatalf("TrackReferral() error = %v", err)
		}
		if got := store.earnings[0].EarningAmount; got != 6000 {
			t.Fatalf("earning = %d, want 6000", got)
		}
	})

	t.Run("rejects self referral", func(t *testing.T) {
		svc, _, _ := newTestReferralService()
		if _, err := svc.TrackReferral("alice", "alice"); !errors.Is(err, ErrInvalidReferrer) {
			t.Fatalf("error = %v, want ErrInvalidReferrer", err)
		}
	})

	t.Run("rejects empty referrer", func(t *testing.T) {
		svc, _, _ := newTestReferralService()
		if _, err := svc.TrackReferral("charlie", ""); !errors.Is(err, ErrInvalidReferrer) {
			t.Fatalf("error = %v, want ErrInvalidReferrer", err)
		}
	})

	t.Run("rejects unknown referrer", func(t *testing.T) {
		svc, _, _ := newTestReferralService()
		if _, err := svc.TrackReferral("charlie", "nobody"); !errors.Is(err, ErrReferrerNotFound) {
			t.Fatalf("error = %v, want ErrReferrerNotFound", err)
		}
	})

	t.Run("first referrer wins", func(t *testing.T) {
		svc, store, _ := newTestReferralService()
		if _, err := svc.TrackReferral("charlie", "alice"); err != nil {
			t.Fatalf("first TrackReferral() error = %v", err)
		}
		if _, err := svc.TrackReferral("charlie", "bob"); !errors.Is(err, ErrAlreadyReferred) {
			t.Fatalf("second error = %v, want ErrAlreadyReferred", err)
		}
		if got := store.tracking["charlie"].ReferrerUsername; got != "alice" {
			t.Fatalf("referrer = %q, want alice", got)
		}
		if len(store.earnings) != 1 {
			t.Fatalf("earnings = %d, want 1", len(store.earnings))
		}
	})
}

func TestProcessProUpgrade(t *testing.T) {
	t.Run("credits referrer half the price once", func(t *testing.T) {
		svc, store, balances := newTestReferralService()
		if _, err := svc.TrackReferral("charlie", "alice"); err != nil {
			t.Fatalf("TrackReferral() error = %v", err)
		}
		res, err := svc.ProcessProUpgrade("charlie", domain.ProPriceMonthly)
		if err != nil {
			t.Fatalf("ProcessProUpgrade() error = %v", err)
		}
		if !res.Credited || res.Referrer != "alice" || res.Amount != 45000 {
			t.Fatalf("result = %+v, want credited 45000 to alice", res)
		}
		if got := store.tracking["charlie"].ConversionStatus; got != domain.ConversionPro {
			t.Fatalf("conversion status = %q, want %q", got, domain.ConversionPro)
		}
		// signup 3000 + upgrade 45000
		if balances.credits["alice"] != 48000 {
			t.Fatalf("balance = %d, want 48000", balances.credits["alice"])
		}

		// A repeated confirmation must not credit again.
		res, err = svc.ProcessProUpgrade("charlie", domain.ProPriceMonthly)
		if err != nil {
			t.Fatalf("second ProcessProUpgrade() error = %v", err)
		}
		if res.Credited {
			t.Fatal("second upgrade credited again")
		}
		if len(store.earnings) != 2 {
			t.Fatalf("earnings = %d, want 2", len(store.earnings))
		}
	})

	t.Run("no-op for users without a referrer", func(t *testing.T) {
		svc, store, _ := newTestReferralService()
		res, err := svc.ProcessProUpgrade("loner", domain.ProPriceYearly)
		if err != nil {
			t.Fatalf("ProcessProUpgrade() error = %v", err)
		}
		if res.Credited || len(store.earnings) != 0 {
			t.Fatalf("expected no credit, got %+v with %d earnings", res, len(store.earnings))
		}
	})
}

func TestReferralStats(t *testing.T) {
	svc, _, _ := newTestReferralService()
	for _, u := range []string{"u1", "u2", "u3"} {
		if _, err := svc.TrackReferral(u, "alice"); err != nil {
			t.Fatalf("TrackReferral(%s) error = %v", u, err)
		}
	}
	if _, err := svc.ProcessProUpgrade("u2", domain.ProPriceMonthly); err != nil {
		t.Fatalf("ProcessProUpgrade() error = %v", err)
	}
	stats, err := svc.Stats("alice")
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if stats.TotalReferred != 3 {
		t.Fatalf("total referred = %d, want 3", stats.TotalReferred)
	}
	if stats.ProConversions != 1 {
		t.Fatalf("pro conversions = %d, want 1", stats.ProConversions)
	}
	// three signups at 3000 plus one upgrade at 45000
	if stats.TotalEarnings != 54000 {
		t.Fatalf("total earnings = %d, want 54000", stats.TotalEarnings)
	}
}
