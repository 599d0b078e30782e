package main

import (
	"github.com/rs/zerolog"

	"github.com/noah-isme/kasir-api/internal/bundle"
	"github.com/noah-isme/kasir-api/internal/catalog"
	"github.com/noah-isme/kasir-api/internal/checkout"
	"github.com/noah-isme/kasir-api/internal/coupon"
	"github.com/noah-isme/kasir-api/internal/offer"
)

// seedDemoData loads a small catalog with one offer per kind, a bundle,
// and a coupon so a fresh process can price a cart without any admin calls.
func seedDemoData(store *catalog.Store, svc *checkout.Service, logger zerolog.Logger) {
	toothbrush := catalog.Product{Name: "toothbrush", Unit: catalog.UnitEach}
	toothpaste := catalog.Product{Name: "toothpaste", Unit: catalog.UnitEach}
	apples := catalog.Product{Name: "apples", Unit: catalog.UnitKilo}
	rice := catalog.Product{Name: "rice", Unit: catalog.UnitEach}
	cherryTomatoes := catalog.Product{Name: "cherry tomatoes", Unit: catalog.UnitEach}
	milk := catalog.Product{Name: "milk", Unit: catalog.UnitEach}

	store.AddProduct(toothbrush, 0.99)
	store.AddProduct(toothpaste, 1.79)
	store.AddProduct(apples, 1.99)
	store.AddProduct(rice, 2.49)
	store.AddProduct(cherryTomatoes, 0.69)
	store.AddProduct(milk, 1.50)

	svc.AddSpecialOffer(offer.KindThreeForTwo, toothbrush, 0)
	svc.AddSpecialOffer(offer.KindFiveForAmount, toothpaste, 7.49)
	svc.AddSpecialOffer(offer.KindPercentDiscount, apples, 20)
	svc.AddSpecialOffer(offer.KindPercentDiscount, rice, 10)
	svc.AddSpecialOffer(offer.KindTwoForAmount, cherryTomatoes, 0.99)

	breakfast, err := bundle.New("breakfast", []catalog.Product{milk, rice}, 10, "Breakfast bundle")
	if err != nil {
		logger.Error().Err(err).Msg("seed bundle")
	} else {
		svc.RegisterBundle(breakfast)
	}

	welcome := coupon.New("WELCOME10", coupon.KindPercentage, 10)
	welcome.MaxUses = 100
	welcome.Description = "Welcome discount"
	svc.RegisterCoupon(welcome)

	logger.Info().Msg("demo data seeded")
}
