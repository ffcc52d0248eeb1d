package export

import "github.com/scanworks/passport-scanner/internal/normalize"

// Headers is the fixed export schema. Column order is part of the contract
// with the downstream consumer and must not change.
var Headers = []string{
	"ID",
	"Vto_ID",
	"NUMERO_DE_PAIS",
	"Apellido",
	"Nombre",
	"Dirección",
	"N°",
	"Localidad",
	"NUMERO_DE_PAIS_2",
	"Sexo",
	"Estado_Civil",
	"Fecha_de_Nacimiento",
	"Lugar_de_nacimiento",
	"Profesión",
}

// rowValues maps a record onto the export columns. Country codes keep their
// native type: ints stay ints so spreadsheet cells come out numeric.
func rowValues(r normalize.NormalizedRecord) []any {
	return []any{
		r.ID,
		r.ExpiryID,
		r.CountryCode.Value(),
		r.Surname,
		r.GivenName,
		r.Street,
		r.StreetNumber,
		r.Locality,
		r.CountryCode2.Value(),
		r.Sex,
		r.MaritalStatus,
		r.BirthDate,
		r.BirthPlace,
		r.Profession,
	}
}

// rowStrings is rowValues flattened for text formats.
func rowStrings(r normalize.NormalizedRecord) []string {
	return []string{
		r.ID,
		r.ExpiryID,
		r.CountryCode.String(),
		r.Surname,
		r.GivenName,
		r.Street,
		r.StreetNumber,
		r.Locality,
		r.CountryCode2.String(),
		r.Sex,
		r.MaritalStatus,
		r.BirthDate,
		r.BirthPlace,
		r.Profession,
	}
}
