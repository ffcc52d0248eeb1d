package normalize

import (
	"math/rand"
	"strconv"
	"strings"

	"github.com/scanworks/passport-scanner/internal/docai"
)

// Record defaults. Every export field must carry a value; these fill the
// fields passports do not provide.
const (
	DefaultMaritalStatus = "SOLTERO"
	DefaultProfession    = "NO INFORMA"
	defaultSex           = "M"
)

// NormalizedRecord is the canonical fixed-schema export row. All fields are
// always populated; the record is immutable once built.
type NormalizedRecord struct {
	ID            string
	ExpiryID      string
	CountryCode   CountryCode // from nationality
	Surname       string
	GivenName     string
	Street        string
	StreetNumber  string
	Locality      string
	CountryCode2  CountryCode // from birthplace; independent of CountryCode
	Sex           string
	MaritalStatus string
	BirthDate     string // DDMMYYYY
	BirthPlace    string
	Profession    string
}

// Rand is the randomness source behind generated fallback fields (IDs, street
// numbers). Injected in tests for determinism.
type Rand interface {
	Intn(n int) int
}

type systemRand struct{}

func (systemRand) Intn(n int) int { return rand.Intn(n) }

// Normalizer turns raw scan results into normalized records. It is pure
// except for the injected randomness; it never returns an error.
type Normalizer struct {
	rng  Rand
	addr AddressResolver
}

type Option func(*Normalizer)

func WithRand(r Rand) Option {
	return func(n *Normalizer) {
		if r != nil {
			n.rng = r
		}
	}
}

func WithAddressResolver(r AddressResolver) Option {
	return func(n *Normalizer) {
		if r != nil {
			n.addr = r
		}
	}
}

func New(opts ...Option) *Normalizer {
	n := &Normalizer{
		rng:  systemRand{},
		addr: SentinelResolver{},
	}
	for _, o := range opts {
		o(n)
	}
	return n
}

// Record builds the canonical record from a raw scan result, optionally
// already carrying AI-enhanced fields. Missing inputs default; nothing throws.
func (n *Normalizer) Record(raw docai.RawScanResult) NormalizedRecord {
	nationality := raw.Get(docai.FieldNationality)
	if nationality == "" {
		nationality = raw.Get(docai.FieldCountry)
	}
	country := StandardizeCountry(nationality)

	birthplaceRaw := raw.Get(docai.FieldPlaceOfBirth)
	if birthplaceRaw == "" {
		birthplaceRaw = nationality
	}
	birthplace := StandardizeCountry(birthplaceRaw)

	surname, givenName := extractNames(raw)
	address := n.addr.Resolve(raw, country)

	locality := address.Locality
	if locality == "" {
		locality = country
	}

	profession := raw.Get("profession")
	if profession == "" {
		profession = DefaultProfession
	}

	return NormalizedRecord{
		ID:            n.documentID(raw),
		ExpiryID:      n.expiryID(raw.Get(docai.FieldDateOfExpiry)),
		CountryCode:   GetCountryCode(country),
		Surname:       strings.ToUpper(surname),
		GivenName:     strings.ToUpper(givenName),
		Street:        address.Street,
		StreetNumber:  address.Number,
		Locality:      locality,
		CountryCode2:  GetCountryCode(birthplace),
		Sex:           StandardizeGender(raw.Get(docai.FieldSex)),
		MaritalStatus: DefaultMaritalStatus,
		BirthDate:     StandardizeDate(raw.Get(docai.FieldDateOfBirth)),
		BirthPlace:    birthplace,
		Profession:    profession,
	}
}

func (n *Normalizer) documentID(raw docai.RawScanResult) string {
	if id := raw.DocumentID(); id != "" {
		return id
	}
	return strconv.Itoa(n.rng.Intn(100000000))
}

// expiryID derives a plausible secondary identifier from the expiry date:
// the expiry year plus random digits, or a fully random number when the
// expiry did not parse.
func (n *Normalizer) expiryID(expiry string) string {
	std := StandardizeDate(expiry)
	if expiry != "" && len(std) == 8 && isDigits(std) {
		return std[4:] + strconv.Itoa(n.rng.Intn(10000))
	}
	return strconv.Itoa(n.rng.Intn(10000000))
}

// extractNames prefers explicit fields; when exactly one of the two name
// fields is present and holds multiple tokens, the first token is taken as
// the surname and the remainder as the given name.
func extractNames(raw docai.RawScanResult) (surname, givenName string) {
	surname = raw.Get(docai.FieldSurname)
	givenName = raw.Get(docai.FieldGivenName)
	if surname != "" && givenName != "" {
		return surname, givenName
	}

	single := surname
	if single == "" {
		single = givenName
	}
	tokens := strings.Fields(single)
	if len(tokens) > 1 {
		return tokens[0], strings.Join(tokens[1:], " ")
	}
	return surname, givenName
}

// StandardizeGender maps free-form sex values onto M/F, defaulting to M.
func StandardizeGender(sex string) string {
	upper := strings.ToUpper(strings.TrimSpace(sex))
	switch {
	case upper == "M", upper == "MALE", strings.Contains(upper, "MASCULIN"):
		return "M"
	case upper == "F", upper == "FEMALE", strings.Contains(upper, "FEMENIN"):
		return "F"
	}
	return defaultSex
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
