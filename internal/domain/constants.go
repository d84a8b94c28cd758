package domain

const (
	PlanFree = "Free"
	PlanPro  = "Pro"
)

const (
	BlockTypeLink    = "link"
	BlockTypeProduct = "product"
)

const (
	PaymentPending = "pending"
	PaymentPaid    = "paid"
	PaymentFailed  = "failed"
)

// Purchase kinds share the digital_purchases table; the order id prefix
// mirrors the kind (PROD- for products, PRO- for plan upgrades).
const (
	PurchaseKindProduct = "product"
	PurchaseKindUpgrade = "pro_upgrade"
)

const (
	ConversionFree = "converted_free"
	ConversionPro  = "converted_pro"
)

const (
	EarningStatusPending = "pending"
	EarningStatusPaid    = "paid"
)

// Default commission rates by creator plan. A product_affiliates row
// overrides these per product.
const (
	CommissionRateFree = 0.30
	CommissionRatePro  = 0.50
)

// Pro plan prices in rupiah.
const (
	ProPriceMonthly int64 = 90000
	ProPriceYearly  int64 = 900000
)

// Setting keys (seeded by database.SeedDefaults).
const (
	SettingFreeSignupValue = "referral_free_signup_value"
)

// DefaultFreeSignupValue is the assumed value of a free signup when the
// setting row is missing. The 30% signup bonus is taken from it.
const DefaultFreeSignupValue int64 = 10000
