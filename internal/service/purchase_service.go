package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"redlink/internal/domain"
	"redlink/internal/models"
	"redlink/pkg/messaging"
	"redlink/pkg/payment"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrProductNotFound     = errors.New("product not found")
	ErrNotPurchasable      = errors.New("block is not a purchasable product")
	ErrOrderNotFound       = errors.New("order not found")
	ErrCheckoutUnavailable = errors.New("payment gateway returned no checkout url")
	ErrUnknownBillingCycle = errors.New("unknown billing cycle")
)

type purchaseStore interface {
	Create(p *models.Purchase) error
	GetByOrderID(orderID string) (*models.Purchase, error)
	MarkPaid(orderID string) (bool, error)
	MarkFailed(orderID string) error
	MarkWASent(orderID string) error
}

type blockLookup interface {
	GetByID(id uint) (*models.Block, error)
}

type affiliateStore interface {
	GetAssignment(productID uint, affiliateUsername string) (*models.ProductAffiliate, error)
	CreateCommission(c *models.AffiliateCommission) error
}

type planStore interface {
	GetByUsername(username string) (*models.User, error)
	SetPlan(username, plan string) error
}

type waSender interface {
	Send(ctx context.Context, target, message string) error
}

type eventPublisher interface {
	PublishToUser(username string, event interface{})
}

// PurchaseService drives a product purchase from checkout to settlement.
// Checkout and payment confirmation are two separate events: the gateway
// webhook, not a timer, moves a purchase from pending to paid.
type PurchaseService struct {
	provider    payment.Provider
	purchases   purchaseStore
	blocks      blockLookup
	users       planStore
	affiliates  affiliateStore
	balances    balanceCreditor
	referrals   *ReferralService
	wa          waSender
	events      eventPublisher
	callbackURL string
}

func NewPurchaseService(
	provider payment.Provider,
	purchases purchaseStore,
	blocks blockLookup,
	users planStore,
	affiliates affiliateStore,
	balances balanceCreditor,
	referrals *ReferralService,
	wa waSender,
	events eventPublisher,
	callbackURL string,
) *PurchaseService {
	return &PurchaseService{
		provider:    provider,
		purchases:   purchases,
		blocks:      blocks,
		users:       users,
		affiliates:  affiliates,
		balances:    balances,
		referrals:   referrals,
		wa:          wa,
		events:      events,
		callbackURL: callbackURL,
	}
}

// BuyerInfo is what the public purchase form captures about the buyer.
type BuyerInfo struct {
	Username string
	Email    string
	Phone    string
}

type CheckoutResult struct {
	OrderID     string `json:"order_id"`
	CheckoutURL string `json:"checkout_url"`
	QRURL       string `json:"qr_url,omitempty"`
	QRPayload   string `json:"qr_payload,omitempty"`
	Amount      int64  `json:"amount"`
}

// InitiateProductCheckout opens a QRIS checkout for one product block and
// records the pending purchase. affiliateRef is the ?ref= tag from the page
// URL; a tag equal to the creator is dropped.
func (s *PurchaseService) InitiateProductCheckout(ctx context.Context, creatorUsername string, blockID uint, buyer BuyerInfo, affiliateRef string) (*CheckoutResult, error) {
	block, err := s.blocks.GetByID(blockID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	if block.Username != creatorUsername || !block.IsProduct() {
		return nil, ErrNotPurchasable
	}

	orderID := fmt.Sprintf("PROD-%d-%s", block.ID, shortID())
	if buyer.Email == "" {
		buyer.Email = "buyer@redlynk.id"
	}
	resp, err := s.provider.CreateCheckout(ctx, payment.CheckoutRequest{
		Method:        "QRIS",
		Amount:        block.Price,
		ProductName:   block.Title,
		CustomerName:  buyer.Username,
		CustomerEmail: buyer.Email,
		CustomerPhone: buyer.Phone,
		OrderID:       orderID,
		CallbackURL:   s.callbackURL,
	})
	if err != nil {
		return nil, err
	}
	if resp.CheckoutURL == "" {
		return nil, ErrCheckoutUnavailable
	}

	if affiliateRef == creatorUsername {
		affiliateRef = ""
	}
	p := &models.Purchase{
		OrderID:         orderID,
		Kind:            domain.PurchaseKindProduct,
		BuyerUsername:   buyer.Username,
		BuyerPhone:      buyer.Phone,
		BuyerEmail:      buyer.Email,
		CreatorUsername: creatorUsername,
		ProductID:       block.ID,
		ProductTitle:    block.Title,
		ProductPrice:    block.Price,
		AffiliateRef:    affiliateRef,
		PaymentStatus:   domain.PaymentPending,
	}
	if err := s.purchases.Create(p); err != nil {
		return nil, err
	}
	return &CheckoutResult{
		OrderID:     orderID,
		CheckoutURL: resp.CheckoutURL,
		QRURL:       resp.QRURL,
		QRPayload:   resp.QRPayload,
		Amount:      block.Price,
	}, nil
}

// InitiateUpgradeCheckout opens a checkout for a Pro plan upgrade.
func (s *PurchaseService) InitiateUpgradeCheckout(ctx context.Context, user *models.User, cycle string) (*CheckoutResult, error) {
	var amount int64
	switch cycle {
	case "monthly":
		amount = domain.ProPriceMonthly
	case "yearly":
		amount = domain.ProPriceYearly
	default:
		return nil, ErrUnknownBillingCycle
	}
	orderID := fmt.Sprintf("PRO-%s-%s", cycle, shortID())
	resp, err := s.provider.CreateCheckout(ctx, payment.CheckoutRequest{
		Method:        "QRIS",
		Amount:        amount,
		ProductName:   "RedLink Pro (" + cycle + ")",
		CustomerName:  user.DisplayName,
		CustomerEmail: user.Email,
		CustomerPhone: user.Phone,
		OrderID:       orderID,
		CallbackURL:   s.callbackURL,
	})
	if err != nil {
		return nil, err
	}
	if resp.CheckoutURL == "" {
		return nil, ErrCheckoutUnavailable
	}
	p := &models.Purchase{
		OrderID:       orderID,
		Kind:          domain.PurchaseKindUpgrade,
		BuyerUsername: user.Username,
		BuyerPhone:    user.Phone,
		BuyerEmail:    user.Email,
		ProductTitle:  "RedLink Pro (" + cycle + ")",
		ProductPrice:  amount,
		PaymentStatus: domain.PaymentPending,
	}
	if err := s.purchases.Create(p); err != nil {
		return nil, err
	}
	return &CheckoutResult{
		OrderID:     orderID,
		CheckoutURL: resp.CheckoutURL,
		QRURL:       resp.QRURL,
		QRPayload:   resp.QRPayload,
		Amount:      amount,
	}, nil
}

// HandlePaymentResult settles an order after the gateway callback. Unknown
// orders return ErrOrderNotFound; a repeated success callback is a no-op
// because only the call that wins the pending->paid flip settles.
func (s *PurchaseService) HandlePaymentResult(ctx context.Context, orderID string, succeeded bool) error {
	p, err := s.purchases.GetByOrderID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrOrderNotFound
		}
		return err
	}
	if !succeeded {
		return s.purchases.MarkFailed(orderID)
	}
	moved, err := s.purchases.MarkPaid(orderID)
	if err != nil {
		return err
	}
	if !moved {
		log.Printf("[purchase] order %s already settled, ignoring callback", orderID)
		return nil
	}
	switch p.Kind {
	case domain.PurchaseKindUpgrade:
		return s.settleUpgrade(p)
	default:
		return s.settleProduct(ctx, p)
	}
}

func (s *PurchaseService) settleProduct(ctx context.Context, p *models.Purchase) error {
	if s.balances != nil {
		if err := s.balances.Credit(p.CreatorUsername, p.ProductPrice); err != nil {
			log.Printf("[purchase] failed to credit creator %s: %v", p.CreatorUsername, err)
		}
	}
	if p.AffiliateRef != "" && p.AffiliateRef != p.CreatorUsername {
		s.creditAffiliate(p)
	}
	s.sendDeliveryMessage(ctx, p)
	if s.events != nil {
		s.events.PublishToUser(p.CreatorUsername, map[string]interface{}{
			"type":          "purchase_paid",
			"order_id":      p.OrderID,
			"product_title": p.ProductTitle,
			"amount":        p.ProductPrice,
		})
	}
	return nil
}

func (s *PurchaseService) creditAffiliate(p *models.Purchase) {
	var assignment *models.ProductAffiliate
	if a, err := s.affiliates.GetAssignment(p.ProductID, p.AffiliateRef); err == nil {
		assignment = a
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("[purchase] affiliate lookup failed for order %s: %v", p.OrderID, err)
	}
	creatorPlan := domain.PlanFree
	if creator, err := s.users.GetByUsername(p.CreatorUsername); err == nil {
		creatorPlan = creator.Plan
	}
	rate := ResolveCommissionRate(assignment, creatorPlan)
	commission := ComputeCommission(p.ProductPrice, rate)
	err := s.affiliates.CreateCommission(&models.AffiliateCommission{
		AffiliateUsername: p.AffiliateRef,
		BuyerUsername:     p.BuyerUsername,
		CreatorUsername:   p.CreatorUsername,
		ProductID:         p.ProductID,
		ProductTitle:      p.ProductTitle,
		TotalSale:         p.ProductPrice,
		Commission:        commission,
		CommissionRate:    rate * 100,
		OrderID:           p.OrderID,
	})
	if err != nil {
		log.Printf("[purchase] failed to record commission for order %s: %v", p.OrderID, err)
		return
	}
	if s.balances != nil {
		if err := s.balances.Credit(p.AffiliateRef, commission); err != nil {
			log.Printf("[purchase] failed to credit affiliate %s: %v", p.AffiliateRef, err)
		}
	}
}

func (s *PurchaseService) sendDeliveryMessage(ctx context.Context, p *models.Purchase) {
	if s.wa == nil {
		return
	}
	phone := p.BuyerPhone
	if phone == "" {
		if creator, err := s.users.GetByUsername(p.CreatorUsername); err == nil {
			phone = creator.Phone
		}
	}
	if phone == "" {
		return
	}
	if err := s.wa.Send(ctx, phone, deliveryMessage(p)); err != nil {
		log.Printf("[purchase] wa delivery failed for order %s: %v", p.OrderID, err)
		return
	}
	if err := s.purchases.MarkWASent(p.OrderID); err != nil {
		log.Printf("[purchase] failed to flag wa_sent for order %s: %v", p.OrderID, err)
	}
}

func (s *PurchaseService) settleUpgrade(p *models.Purchase) error {
	if err := s.users.SetPlan(p.BuyerUsername, domain.PlanPro); err != nil {
		return err
	}
	if s.referrals != nil {
		if res, err := s.referrals.ProcessProUpgrade(p.BuyerUsername, p.ProductPrice); err != nil {
			log.Printf("[purchase] pro upgrade referral for %s failed: %v", p.BuyerUsername, err)
		} else if res.Credited {
			log.Printf("[purchase] credited %d to referrer %s for %s going Pro", res.Amount, res.Referrer, p.BuyerUsername)
		}
	}
	if s.events != nil {
		s.events.PublishToUser(p.BuyerUsername, map[string]interface{}{
			"type":     "plan_upgraded",
			"order_id": p.OrderID,
			"plan":     domain.PlanPro,
		})
	}
	return nil
}

func deliveryMessage(p *models.Purchase) string {
	link := "https://redlynk.id/download/" + p.OrderID
	return strings.TrimSpace(fmt.Sprintf(`🎉 *Selamat!* Pembelian kamu di *RedLink* berhasil!

📦 Produk: *%s*
💰 Total: Rp%d
🧾 Ref: %s

Berikut link produk digital kamu:
🔗 %s

⚠️ *Syarat & Ketentuan:*
Link ini bersifat pribadi dan *tidak boleh disebarluaskan atau dijual kembali.*
Pelanggaran dapat menyebabkan penonaktifan akun RedLink.`,
		p.ProductTitle, p.ProductPrice, p.OrderID, link))
}

func shortID() string {
	return strings.SplitN(uuid.NewString(), "-", 2)[0]
}

var _ waSender = (*messaging.FonnteClient)(nil)
