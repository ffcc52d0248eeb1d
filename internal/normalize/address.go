package normalize

import (
	"strconv"
	"strings"

	"github.com/scanworks/passport-scanner/internal/docai"
)

// Sentinel values marking "no address available". A visible marker beats a
// fabricated address in the export.
const (
	SentinelStreet = "SIN DIRECCION"
	SentinelNumber = "S/N"
)

// Address is the resolved street portion of a record.
type Address struct {
	Street   string
	Number   string
	Locality string // optional; record falls back to the country
}

// AddressResolver decides what goes into the street fields when the passport
// itself carries no address. Strategies: visible sentinel, static per-country
// samples, or fields supplied by the AI-enhancement stage.
type AddressResolver interface {
	Resolve(raw docai.RawScanResult, country string) Address
}

// SentinelResolver emits the explicit no-address marker.
type SentinelResolver struct{}

func (SentinelResolver) Resolve(_ docai.RawScanResult, _ string) Address {
	return Address{Street: SentinelStreet, Number: SentinelNumber}
}

// sampleStreets holds a small per-country pool of plausible street lines,
// last token being the street number.
var sampleStreets = map[string][]string{
	"ALEMANIA":       {"Rosenstrasse 84", "Bahnhofstrasse 66", "Hauptstrasse 124"},
	"ESPAÑA":         {"Calle Mayor 73", "Avenida Central 17", "Calle Real 125"},
	"ESTADOS UNIDOS": {"Main Street 35", "Park Avenue 140", "Lake Road 77"},
	"BRASIL":         {"Rua Central 92", "Avenida Principal 123", "Rua Comercial 88"},
	"IRLANDA":        {"Church Avenue 126", "Lake Road 115", "Park Road 123"},
	"AUSTRALIA":      {"School Road 123", "Main Street 85", "Boulevard Central 22"},
}

var defaultStreets = []string{"Street Central 100", "Main Avenue 50", "Central Boulevard 75"}

// SampleResolver picks a random street from the per-country pool.
type SampleResolver struct {
	Rand Rand
}

func (r SampleResolver) Resolve(_ docai.RawScanResult, country string) Address {
	pool, ok := sampleStreets[country]
	if !ok {
		pool = defaultStreets
	}
	line := pool[r.rand().Intn(len(pool))]

	parts := strings.Fields(line)
	number := parts[len(parts)-1]
	street := strings.Join(parts[:len(parts)-1], " ")
	return Address{Street: street, Number: number}
}

func (r SampleResolver) rand() Rand {
	if r.Rand != nil {
		return r.Rand
	}
	return systemRand{}
}

// AIResolver uses street fields supplied by the enhancement stage. When the
// enhancement produced a street without a number, a plausible one in [1,150]
// is generated. Without a street it defers to the fallback resolver.
type AIResolver struct {
	Rand     Rand
	Fallback AddressResolver
}

func (r AIResolver) Resolve(raw docai.RawScanResult, country string) Address {
	street := raw.Get(docai.FieldStreetAddress)
	if street == "" {
		return r.fallback().Resolve(raw, country)
	}
	number := raw.Get(docai.FieldAddressNumber)
	if number == "" {
		number = strconv.Itoa(r.rand().Intn(150) + 1)
	}
	return Address{
		Street:   street,
		Number:   number,
		Locality: raw.Get(docai.FieldLocality),
	}
}

func (r AIResolver) rand() Rand {
	if r.Rand != nil {
		return r.Rand
	}
	return systemRand{}
}

func (r AIResolver) fallback() AddressResolver {
	if r.Fallback != nil {
		return r.Fallback
	}
	return SentinelResolver{}
}
