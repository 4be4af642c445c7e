package orders

import "testing"

var testPricing = PricingPolicy{ShippingFeeCents: 5000, FreeShippingCents: 50000}

func TestBuildQuoteChargesShippingBelowThreshold(t *testing.T) {
	quote, err := testPricing.BuildQuote(1500, 2, 0)
	if err != nil {
		t.Fatalf("build quote: %v", err)
	}
	if quote.SubtotalCents != 3000 {
		t.Fatalf("expected subtotal 3000, got %d", quote.SubtotalCents)
	}
	if quote.ShippingCents != 5000 {
		t.Fatalf("expected shipping 5000, got %d", quote.ShippingCents)
	}
	if quote.TotalCents != 8000 {
		t.Fatalf("expected total 8000, got %d", quote.TotalCents)
	}
}

func TestBuildQuoteWaivesShippingAtThreshold(t *testing.T) {
	// Exactly at the threshold qualifies.
	quote, err := testPricing.BuildQuote(25000, 2, 0)
	if err != nil {
		t.Fatalf("build quote: %v", err)
	}
	if quote.ShippingCents != 0 {
		t.Fatalf("expected free shipping, got %d", quote.ShippingCents)
	}
	if quote.TotalCents != 50000 {
		t.Fatalf("expected total 50000, got %d", quote.TotalCents)
	}
}

func TestBuildQuoteAppliesDiscount(t *testing.T) {
	quote, err := testPricing.BuildQuote(10000, 1, 2000)
	if err != nil {
		t.Fatalf("build quote: %v", err)
	}
	if quote.TotalCents != quote.SubtotalCents+quote.ShippingCents-quote.DiscountCents {
		t.Fatal("total must equal subtotal + shipping - discount")
	}
	if quote.TotalCents != 13000 {
		t.Fatalf("expected total 13000, got %d", quote.TotalCents)
	}
}

func TestBuildQuoteRejectsBadInputs(t *testing.T) {
	if _, err := testPricing.BuildQuote(1000, 0, 0); err == nil {
		t.Fatal("expected zero quantity to be rejected")
	}
	if _, err := testPricing.BuildQuote(1000, -1, 0); err == nil {
		t.Fatal("expected negative quantity to be rejected")
	}
	if _, err := testPricing.BuildQuote(-1, 1, 0); err == nil {
		t.Fatal("expected negative price to be rejected")
	}
	if _, err := testPricing.BuildQuote(1000, 1, -5); err == nil {
		t.Fatal("expected negative discount to be rejected")
	}
	if _, err := testPricing.BuildQuote(1000, 1, 99999); err == nil {
		t.Fatal("expected oversized discount to be rejected")
	}
}
