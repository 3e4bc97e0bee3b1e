package store

import "larder-cli/internal/model"

// Copy keys referenced by the storefront. The defaults keep the storefront
// renderable on a brand-new workspace; the live editor overwrites them.
const (
	CopyHeroTitle    = "hero_title"
	CopyHeroSubtitle = "hero_subtitle"
	CopyCTAAddCart   = "cta_add_cart"
	CopyCTACheckout  = "cta_checkout"
	CopyChatGreeting = "chat_greeting"
	CopyFooterNote   = "footer_note"
	CopyReviewsTitle = "reviews_title"
)

func DefaultCopy() map[string]string {
	return map[string]string{
		CopyHeroTitle:    "Fresh from the Larder",
		CopyHeroSubtitle: "Local groceries, delivered daily",
		CopyCTAAddCart:   "Add to Cart",
		CopyCTACheckout:  "Checkout",
		CopyChatGreeting: "Hi! Ask us about products, delivery, or opening hours.",
		CopyFooterNote:   "Open Mon-Sat 8:00-18:00",
		CopyReviewsTitle: "What customers say",
	}
}

func DefaultTheme() model.Theme {
	return model.Theme{
		PrimaryColor:    "#2f6f4f",
		AccentColor:     "#e07a3f",
		BackgroundColor: "#faf7f2",
		TextColor:       "#2b2b2b",
		HeadingFont:     "serif",
		BodyFont:        "sans-serif",
		CardRadius:      8,
		ButtonRadius:    4,
	}
}
