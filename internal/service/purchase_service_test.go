package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"redlink/internal/domain"
	"redlink/internal/models"
	"redlink/pkg/payment"

	"gorm.io/gorm"
)

type fakePurchaseStore struct {
	byOrder map[string]*models.Purchase
}

func newFakePurchaseStore() *fakePurchaseStore {
	return &fakePurchaseStore{byOrder: make(map[string]*models.Purchase)}
}

func (f *fakePurchaseStore) Create(p *models.Purchase) error {
	if _, ok := f.byOrder[p.OrderID]; ok {
		return gorm.ErrDuplicatedKey
	}
	f.byOrder[p.OrderID] = p
	return nil
}

func (f *fakePurchaseStore) GetByOrderID(orderID string) (*models.Purchase, error) {
	p, ok := f.byOrder[orderID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (f *fakePurchaseStore) MarkPaid(orderID string) (bool, error) {
	p, ok := f.byOrder[orderID]
	if !ok || p.PaymentStatus != domain.PaymentPending {
		return false, nil
	}
	p.PaymentStatus = domain.PaymentPaid
	return true, nil
}

func (f *fakePurchaseStore) MarkFailed(orderID string) error {
	if p, ok := f.byOrder[orderID]; ok && p.PaymentStatus == domain.PaymentPending {
		p.PaymentStatus = domain.PaymentFailed
	}
	return nil
}

func (f *fakePurchaseStore) MarkWASent(orderID string) error {
	if p, ok := f.byOrder[orderID]; ok {
		p.WASent = true
	}
	return nil
}

type fakeBlockLookup struct {
	blocks map[uint]*models.Block
}

func (f *fakeBlockLookup) GetByID(id uint) (*models.Block, error) {
	b, ok := f.blocks[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return b, nil
}

type fakeAffiliateStore struct {
	assignments map[string]*models.ProductAffiliate // "productID/username"
	commissions []models.AffiliateCommission
}

func affKey(productID uint, username string) string {
	return fmt.Sprintf("%d/%s", productID, username)
}

func (f *fakeAffiliateStore) GetAssignment(productID uint, username string) (*models.ProductAffiliate, error) {
	a, ok := f.assignments[affKey(productID, username)]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return a, nil
}

func (f *fakeAffiliateStore) CreateCommission(c *models.AffiliateCommission) error {
	f.commissions = append(f.commissions, *c)
	return nil
}

type fakePlanStore struct {
	users map[string]*models.User
}

func (f *fakePlanStore) GetByUsername(username string) (*models.User, error) {
	u, ok := f.users[username]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (f *fakePlanStore) SetPlan(username, plan string) error {
	u, ok := f.users[username]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.Plan = plan
	return nil
}

type fakeWA struct {
	sent []string // targets
}

func (f *fakeWA) Send(_ context.Context, target, _ string) error {
	f.sent = append(f.sent, target)
	return nil
}

type fakeEvents struct {
	published []string // usernames
}

func (f *fakeEvents) PublishToUser(username string, _ interface{}) {
	f.published = append(f.published, username)
}

type purchaseFixture struct {
	svc        *PurchaseService
	purchases  *fakePurchaseStore
	affiliates *fakeAffiliateStore
	balances   *fakeBalances
	users      *fakePlanStore
	wa         *fakeWA
	events     *fakeEvents
	referrals  *fakeReferralStore
}

func newPurchaseFixture() *purchaseFixture {
	purchases := newFakePurchaseStore()
	blocks := &fakeBlockLookup{blocks: map[uint]*models.Block{
		1: {ID: 1, Username: "creator", BlockType: domain.BlockTypeProduct, Title: "Ebook", Price: 25000},
		2: {ID: 2, Username: "creator", BlockType: domain.BlockTypeLink, Title: "My blog"},
	}}
	users := &fakePlanStore{users: map[string]*models.User{
		"creator":  {Username: "creator", Plan: domain.PlanFree, Phone: "628111"},
		"affgirl":  {Username: "affgirl", Plan: domain.PlanFree},
		"upgrader": {Username: "upgrader", Plan: domain.PlanFree, Phone: "628222", Email: "up@x.id"},
		"alice":    {Username: "alice", Plan: domain.PlanPro},
	}}
	affiliates := &fakeAffiliateStore{assignments: make(map[string]*models.ProductAffiliate)}
	balances := &fakeBalances{}
	refStore := newFakeReferralStore()
	referralSvc := NewReferralService(refStore, users, fakeSettings{}, balances)
	wa := &fakeWA{}
	events := &fakeEvents{}
	svc := NewPurchaseService(
		&payment.StubProvider{}, purchases, blocks, users, affiliates, balances,
		referralSvc, wa, events, "https://api.test/webhooks/tripay",
	)
	return &purchaseFixture{
		svc: svc, purchases: purchases, affiliates: affiliates, balances: balances,
		users: users, wa: wa, events: events, referrals: refStore,
	}
}

func buy(t *testing.T, fx *purchaseFixture, ref string) *CheckoutResult {
	t.Helper()
	res, err := fx.svc.InitiateProductCheckout(context.Background(), "creator", 1,
		BuyerInfo{Username: "buyer", Phone: "08123456789"}, ref)
	if err != nil {
		t.Fatalf("InitiateProductCheckout() error = %v", err)
	}
	return res
}

func TestInitiateProductCheckout(t *testing.T) {
	t.Run("creates pending purchase with PROD order id", func(t *testing.T) {
		fx := newPurchaseFixture()
		res := buy(t, fx, "")
		if !strings.HasPrefix(res.OrderID, "PROD-1-") {
			t.Fatalf("order id = %q, want PROD-1- prefix", res.OrderID)
		}
		if res.CheckoutURL == "" {
			t.Fatal("missing checkout url")
		}
		p := fx.purchases.byOrder[res.OrderID]
		if p == nil || p.PaymentStatus != domain.PaymentPending {
			t.Fatalf("purchase = %+v, want pending", p)
		}
		if p.ProductPrice != 25000 || p.Kind != domain.PurchaseKindProduct {
			t.Fatalf("purchase = %+v", p)
		}
	})

	t.Run("rejects link blocks", func(t *testing.T) {
		fx := newPurchaseFixture()
		_, err := fx.svc.InitiateProductCheckout(context.Background(), "creator", 2, BuyerInfo{Username: "b", Phone: "0812"}, "")
		if !errors.Is(err, ErrNotPurchasable) {
			t.Fatalf("error = %v, want ErrNotPurchasable", err)
		}
	})

	t.Run("rejects unknown block", func(t *testing.T) {
		fx := newPurchaseFixture()
		_, err := fx.svc.InitiateProductCheckout(context.Background(), "creator", 99, BuyerInfo{Username: "b", Phone: "0812"}, "")
		if !errors.Is(err, ErrProductNotFound) {
			t.Fatalf("error = %v, want ErrProductNotFound", err)
		}
	})

	t.Run("rejects other creator's block", func(t *testing.T) {
		fx := newPurchaseFixture()
		_, err := fx.svc.InitiateProductCheckout(context.Background(), "impostor", 1, BuyerInfo{Username: "b", Phone: "0812"}, "")
		if !errors.Is(err, ErrNotPurchasable) {
			t.Fatalf("error = %v, want ErrNotPurchasable", err)
		}
	})

	t.Run("drops self referral tag", func(t *testing.T) {
		fx := newPurchaseFixture()
		res := buy(t, fx, "creator")
		if got := fx.purchases.byOrder[res.OrderID].AffiliateRef; got != "" {
			t.Fatalf("affiliate ref = %q, want empty", got)
		}
	})
}

func TestHandlePaymentResult(t *testing.T) {
	t.Run("settles product sale once", func(t *testing.T) {
		fx := newPurchaseFixture()
		res := buy(t, fx, "")
		if err := fx.svc.HandlePaymentResult(context.Background(), res.OrderID, true); err != nil {
			t.Fatalf("HandlePaymentResult() error = %v", err)
		}
		if got := fx.purchases.byOrder[res.OrderID].PaymentStatus; got != domain.PaymentPaid {
			t.Fatalf("status = %q, want paid", got)
		}
		if fx.balances.credits["creator"] != 25000 {
			t.Fatalf("creator credit = %d, want 25000", fx.balances.credits["creator"])
		}
		if len(fx.wa.sent) != 1 {
			t.Fatalf("wa sends = %d, want 1", len(fx.wa.sent))
		}
		if !fx.purchases.byOrder[res.OrderID].WASent {
			t.Fatal("wa_sent not flagged")
		}
		if len(fx.events.published) != 1 || fx.events.published[0] != "creator" {
			t.Fatalf("events = %v, want one to creator", fx.events.published)
		}

		// duplicate callback: acknowledged, nothing credited twice
		if err := fx.svc.HandlePaymentResult(context.Background(), res.OrderID, true); err != nil {
			t.Fatalf("duplicate callback error = %v", err)
		}
		if fx.balances.credits["creator"] != 25000 {
			t.Fatalf("creator credit after duplicate = %d, want 25000", fx.balances.credits["creator"])
		}
		if len(fx.wa.sent) != 1 {
			t.Fatalf("wa sends after duplicate = %d, want 1", len(fx.wa.sent))
		}
	})

	t.Run("credits affiliate at plan default rate", func(t *testing.T) {
		fx := newPurchaseFixture()
		res := buy(t, fx, "affgirl")
		if err := fx.svc.HandlePaymentResult(context.Background(), res.OrderID, true); err != nil {
			t.Fatalf("HandlePaymentResult() error = %v", err)
		}
		if len(fx.affiliates.commissions) != 1 {
			t.Fatalf("commissions = %d, want 1", len(fx.affiliates.commissions))
		}
		c := fx.affiliates.commissions[0]
		if c.Commission != 7500 || c.CommissionRate != 30 {
			t.Fatalf("commission = %d at %v%%, want 7500 at 30%%", c.Commission, c.CommissionRate)
		}
		if fx.balances.credits["affgirl"] != 7500 {
			t.Fatalf("affiliate credit = %d, want 7500", fx.balances.credits["affgirl"])
		}
	})

	t.Run("assignment rate overrides plan default", func(t *testing.T) {
		fx := newPurchaseFixture()
		fx.affiliates.assignments[affKey(1, "affgirl")] = &models.ProductAffiliate{
			ProductID: 1, AffiliateUsername: "affgirl", CommissionRate: 0.10,
		}
		res := buy(t, fx, "affgirl")
		if err := fx.svc.HandlePaymentResult(context.Background(), res.OrderID, true); err != nil {
			t.Fatalf("HandlePaymentResult() error = %v", err)
		}
		if got := fx.affiliates.commissions[0].Commission; got != 2500 {
			t.Fatalf("commission = %d, want 2500", got)
		}
	})

	t.Run("marks failure", func(t *testing.T) {
		fx := newPurchaseFixture()
		res := buy(t, fx, "")
		if err := fx.svc.HandlePaymentResult(context.Background(), res.OrderID, false); err != nil {
			t.Fatalf("HandlePaymentResult() error = %v", err)
		}
		if got := fx.purchases.byOrder[res.OrderID].PaymentStatus; got != domain.PaymentFailed {
			t.Fatalf("status = %q, want failed", got)
		}
		if len(fx.balances.credits) != 0 {
			t.Fatalf("credits = %v, want none", fx.balances.credits)
		}
	})

	t.Run("unknown order", func(t *testing.T) {
		fx := newPurchaseFixture()
		err := fx.svc.HandlePaymentResult(context.Background(), "PROD-1-nope", true)
		if !errors.Is(err, ErrOrderNotFound) {
			t.Fatalf("error = %v, want ErrOrderNotFound", err)
		}
	})
}

func TestUpgradeFlow(t *testing.T) {
	t.Run("rejects unknown cycle", func(t *testing.T) {
		fx := newPurchaseFixture()
		_, err := fx.svc.InitiateUpgradeCheckout(context.Background(), fx.users.users["upgrader"], "weekly")
		if !errors.Is(err, ErrUnknownBillingCycle) {
			t.Fatalf("error = %v, want ErrUnknownBillingCycle", err)
		}
	})

	t.Run("paid upgrade flips plan and credits referrer", func(t *testing.T) {
		fx := newPurchaseFixture()
		// upgrader was referred by alice
		fx.referrals.tracking["upgrader"] = &models.ReferralTracking{
			ReferrerUsername: "alice", ReferredUsername: "upgrader",
			ConversionStatus: domain.ConversionFree,
		}
		res, err := fx.svc.InitiateUpgradeCheckout(context.Background(), fx.users.users["upgrader"], "monthly")
		if err != nil {
			t.Fatalf("InitiateUpgradeCheckout() error = %v", err)
		}
		if !strings.HasPrefix(res.OrderID, "PRO-monthly-") {
			t.Fatalf("order id = %q, want PRO-monthly- prefix", res.OrderID)
		}
		if res.Amount != domain.ProPriceMonthly {
			t.Fatalf("amount = %d, want %d", res.Amount, domain.ProPriceMonthly)
		}
		if got := fx.users.users["upgrader"].Plan; got != domain.PlanFree {
			t.Fatalf("plan flipped before payment: %q", got)
		}

		if err := fx.svc.HandlePaymentResult(context.Background(), res.OrderID, true); err != nil {
			t.Fatalf("HandlePaymentResult() error = %v", err)
		}
		if got := fx.users.users["upgrader"].Plan; got != domain.PlanPro {
			t.Fatalf("plan = %q, want Pro", got)
		}
		if fx.balances.credits["alice"] != 45000 {
			t.Fatalf("referrer credit = %d, want 45000", fx.balances.credits["alice"])
		}
		if got := fx.referrals.tracking["upgrader"].ConversionStatus; got != domain.ConversionPro {
			t.Fatalf("conversion = %q, want %q", got, domain.ConversionPro)
		}
		if len(fx.events.published) != 1 || fx.events.published[0] != "upgrader" {
			t.Fatalf("events = %v, want one to upgrader", fx.events.published)
		}

		// replayed callback is a no-op
		if err := fx.svc.HandlePaymentResult(context.Background(), res.OrderID, true); err != nil {
			t.Fatalf("duplicate callback error = %v", err)
		}
		if fx.balances.credits["alice"] != 45000 {
			t.Fatalf("referrer credit after duplicate = %d, want 45000", fx.balances.credits["alice"])
		}
	})
}
