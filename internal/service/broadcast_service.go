package service

import (
	"context"
	"errors"
	"log"

	"redlink/internal/models"
	"redlink/pkg/messaging"
)

var ErrNoRecipients = errors.New("no recipients with contact info")

type buyerLister interface {
	ListPaidBuyersByCreator(creator string) ([]models.Purchase, error)
}

type emailSender interface {
	Send(ctx context.Context, to []string, subject, html string) (string, error)
}

// BroadcastService lets a creator message everyone who bought from them,
// over WhatsApp or email.
type BroadcastService struct {
	purchases buyerLister
	wa        waSender
	email     emailSender
}

func NewBroadcastService(purchases buyerLister, wa waSender, email emailSender) *BroadcastService {
	return &BroadcastService{purchases: purchases, wa: wa, email: email}
}

type BroadcastResult struct {
	Sent   int `json:"sent"`
	Failed int `json:"failed"`
}

// BroadcastWhatsApp sends the message to every distinct buyer phone number.
func (s *BroadcastService) BroadcastWhatsApp(ctx context.Context, creator, message string) (*BroadcastResult, error) {
	buyers, err := s.purchases.ListPaidBuyersByCreator(creator)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{})
	res := &BroadcastResult{}
	for _, p := range buyers {
		phone := messaging.NormalizePhone(p.BuyerPhone)
		if phone == "" {
			continue
		}
		if _, ok := seen[phone]; ok {
			continue
		}
		seen[phone] = struct{}{}
		if err := s.wa.Send(ctx, phone, message); err != nil {
			log.Printf("[broadcast] wa send to %s failed: %v", phone, err)
			res.Failed++
			continue
		}
		res.Sent++
	}
	if res.Sent == 0 && res.Failed == 0 {
		return nil, ErrNoRecipients
	}
	return res, nil
}

// BroadcastEmail sends the message to every distinct buyer email.
func (s *BroadcastService) BroadcastEmail(ctx context.Context, creator, subject, html string) (*BroadcastResult, error) {
	buyers, err := s.purchases.ListPaidBuyersByCreator(creator)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{})
	res := &BroadcastResult{}
	for _, p := range buyers {
		if p.BuyerEmail == "" {
			continue
		}
		if _, ok := seen[p.BuyerEmail]; ok {
			continue
		}
		seen[p.BuyerEmail] = struct{}{}
		if _, err := s.email.Send(ctx, []string{p.BuyerEmail}, subject, html); err != nil {
			log.Printf("[broadcast] email send to %s failed: %v", p.BuyerEmail, err)
			res.Failed++
			continue
		}
		res.Sent++
	}
	if res.Sent == 0 && res.Failed == 0 {
		return nil, ErrNoRecipients
	}
	return res, nil
}
