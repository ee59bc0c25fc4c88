package utils

import (
	"fmt"
	"strings"
)

// SKU source tags, in ladder order
const (
	SKUSourceMonta     = "monta_sku"
	SKUSourceDefault   = "default_code"
	SKUSourceSupplier  = "supplier_code"
	SKUSourceBarcode   = "barcode"
	SKUSourceTemplate  = "template_default_code"
	SKUSourceSynthetic = "synthetic"
	SKUSourceMissing   = "missing"
)

// SKUCandidate feeds the resolution ladder with every code a product
// record can carry.
type SKUCandidate struct {
	ID           uint
	MontaSKU     string
	DefaultCode  string
	SupplierCode string
	Barcode      string
	TemplateCode string
}

// ResolveSKU walks the ladder and returns (sku, source). When every
// rung is empty and synthetic fallback is allowed, a stable synthetic
// code is derived from the record id so the same product always maps
// to the same SKU.
func ResolveSKU(p SKUCandidate, allowSynthetic bool, syntheticPrefix string) (string, string) {
	rungs := []struct {
		value  string
		source string
	}{
		{p.MontaSKU, SKUSourceMonta},
		{p.DefaultCode, SKUSourceDefault},
		{p.SupplierCode, SKUSourceSupplier},
		{p.Barcode, SKUSourceBarcode},
		{p.TemplateCode, SKUSourceTemplate},
	}
	for _, r := range rungs {
		if s := strings.TrimSpace(r.value); s != "" {
			return s, r.source
		}
	}
	if allowSynthetic {
		if syntheticPrefix == "" {
			syntheticPrefix = "SYN-"
		}
		return fmt.Sprintf("%s%d", syntheticPrefix, p.ID), SKUSourceSynthetic
	}
	return "", SKUSourceMissing
}
