package normalize

import (
	"strconv"
	"strings"
)

// countryCodes is the canonical mapping from Spanish-language country name to
// the numeric code used by the export schema. The numbering is fixed by the
// downstream consumer and must not be reordered.
var countryCodes = map[string]int{
	"ALEMANIA":             0,
	"ARGENTINA":            1,
	"ARMENIA":              1,
	"AUSTRALIA":            2,
	"AUSTRIA":              3,
	"BELGICA":              4,
	"BOLIVIA":              5,
	"BRASIL":               6,
	"BULGARIA":             7,
	"CANADA":               8,
	"CHILE":                9,
	"CHINA":                10,
	"COLOMBIA":             11,
	"CONGO":                12,
	"COREA DEMOCRATICA":    13,
	"COREA REPUBLICANA":    14,
	"COSTA RICA":           15,
	"CROACIA":              16,
	"CUBA":                 17,
	"DINAMARCA":            18,
	"ECUADOR":              19,
	"EGIPTO":               20,
	"EL SALVADOR":          21,
	"ESLOVAQUIA":           22,
	"ESLOVENIA":            23,
	"ESPAÑA":               24,
	"ESTADOS UNIDOS":       25,
	"FILIPINAS":            26,
	"FINLANDIA":            27,
	"FRANCIA":              28,
	"GRECIA":               29,
	"GUATEMALA":            30,
	"GUYANA":               31,
	"HAITI":                32,
	"HONDURAS":             33,
	"CHINA2":               34,
	"HUNGRIA":              35,
	"INDIA":                36,
	"INDONESIA":            37,
	"IRLANDA":              38,
	"ISLANDIA":             39,
	"ISRAEL":               40,
	"ITALIA":               41,
	"JAMAICA":              42,
	"JAPON":                43,
	"JORDANIA":             44,
	"KENYA":                45,
	"LIBANO":               46,
	"LITUANIA":             47,
	"LUXEMBURGO":           48,
	"MALASIA":              49,
	"MARRUECOS":            50,
	"MEXICO":               51,
	"MONACO":               52,
	"NICARAGUA":            53,
	"NORUEGA":              54,
	"NUEVA ZELANDA":        55,
	"PAISES BAJOS":         56,
	"PANAMA":               57,
	"PARAGUAY":             58,
	"PERU":                 59,
	"POLONIA":              60,
	"PORTUGAL":             61,
	"PUERTO RICO":          62,
	"INGLATERRA":           63,
	"REPUBLICA CHECA":      64,
	"REPUBLICA DOMINICANA": 65,
	"RUMANIA":              66,
	"RUSIA":                67,
	"SANTA SEDE":           68,
	"SENEGAL":              69,
	"SERBIA":               70,
	"SINGAPUR":             71,
	"SIRIA":                72,
	"SUDAFRICA":            73,
	"SUECIA":               74,
	"SUIZA":                75,
	"SURINAME":             76,
	"TAILANDIA":            77,
	"TAIWAN":               78,
	"TURQUIA":              79,
	"UCRANIA":              80,
	"URUGUAY":              81,
	"VENEZUELA":            82,
	"VIETNAM":              83,
}

// countrySynonyms maps raw passport strings (English names, ISO alpha-3
// codes, formal state names, gentilic forms in Spanish and English) to the
// canonical Spanish country name. Keys are uppercase.
var countrySynonyms = map[string]string{
	// United States
	"USA": "ESTADOS UNIDOS", "US": "ESTADOS UNIDOS", "UNITED STATES": "ESTADOS UNIDOS",
	"UNITED STATES OF AMERICA": "ESTADOS UNIDOS", "AMERICAN": "ESTADOS UNIDOS",
	"ESTADOUNIDENSE": "ESTADOS UNIDOS",
	// United Kingdom (mapped to INGLATERRA in the code table)
	"UK": "INGLATERRA", "GBR": "INGLATERRA", "UNITED KINGDOM": "INGLATERRA",
	"GREAT BRITAIN": "INGLATERRA", "BRITISH": "INGLATERRA", "BRITANICO": "INGLATERRA",
	"BRITANICA": "INGLATERRA", "BRITISH CITIZEN": "INGLATERRA",
	// Europe
	"GERMANY": "ALEMANIA", "DEU": "ALEMANIA", "GERMAN": "ALEMANIA", "DEUTSCH": "ALEMANIA",
	"ALEMAN": "ALEMANIA", "ALEMANA": "ALEMANIA", "FEDERAL REPUBLIC OF GERMANY": "ALEMANIA",
	"FRANCE": "FRANCIA", "FRA": "FRANCIA", "FRENCH": "FRANCIA", "FRANCES": "FRANCIA",
	"FRANCESA": "FRANCIA", "FRANCAISE": "FRANCIA", "FRENCH REPUBLIC": "FRANCIA",
	"SPAIN": "ESPAÑA", "ESP": "ESPAÑA", "SPANISH": "ESPAÑA", "ESPANOL": "ESPAÑA",
	"ESPAÑOL": "ESPAÑA", "ESPAÑOLA": "ESPAÑA", "ESPANOLA": "ESPAÑA", "KINGDOM OF SPAIN": "ESPAÑA",
	"ITALY": "ITALIA", "ITA": "ITALIA", "ITALIAN": "ITALIA", "ITALIANO": "ITALIA",
	"ITALIANA": "ITALIA", "ITALIAN REPUBLIC": "ITALIA",
	"PORTUGAL": "PORTUGAL", "PRT": "PORTUGAL", "PORTUGUESE": "PORTUGAL", "PORTUGUES": "PORTUGAL",
	"PORTUGUESA": "PORTUGAL",
	"IRELAND":    "IRLANDA", "IRL": "IRLANDA", "IRISH": "IRLANDA", "IRLANDES": "IRLANDA",
	"NETHERLANDS": "PAISES BAJOS", "NLD": "PAISES BAJOS", "DUTCH": "PAISES BAJOS",
	"HOLANDA": "PAISES BAJOS", "HOLANDES": "PAISES BAJOS", "KINGDOM OF THE NETHERLANDS": "PAISES BAJOS",
	"BELGIUM": "BELGICA", "BEL": "BELGICA", "BELGIAN": "BELGICA", "BELGA": "BELGICA",
	"SWITZERLAND": "SUIZA", "CHE": "SUIZA", "SWISS": "SUIZA", "SUIZO": "SUIZA", "SUIZA": "SUIZA",
	"AUSTRIA": "AUSTRIA", "AUT": "AUSTRIA", "AUSTRIAN": "AUSTRIA", "AUSTRIACO": "AUSTRIA",
	"SWEDEN": "SUECIA", "SWE": "SUECIA", "SWEDISH": "SUECIA", "SUECO": "SUECIA", "SUECA": "SUECIA",
	"NORWAY": "NORUEGA", "NOR": "NORUEGA", "NORWEGIAN": "NORUEGA", "NORUEGO": "NORUEGA",
	"DENMARK": "DINAMARCA", "DNK": "DINAMARCA", "DANISH": "DINAMARCA", "DANES": "DINAMARCA",
	"FINLAND": "FINLANDIA", "FIN": "FINLANDIA", "FINNISH": "FINLANDIA", "FINLANDES": "FINLANDIA",
	"ICELAND": "ISLANDIA", "ISL": "ISLANDIA", "ICELANDIC": "ISLANDIA",
	"POLAND": "POLONIA", "POL": "POLONIA", "POLISH": "POLONIA", "POLACO": "POLONIA", "POLACA": "POLONIA",
	"GREECE": "GRECIA", "GRC": "GRECIA", "GREEK": "GRECIA", "GRIEGO": "GRECIA", "GRIEGA": "GRECIA",
	"HUNGARY": "HUNGRIA", "HUN": "HUNGRIA", "HUNGARIAN": "HUNGRIA", "HUNGARO": "HUNGRIA",
	"CZECH REPUBLIC": "REPUBLICA CHECA", "CZE": "REPUBLICA CHECA", "CZECHIA": "REPUBLICA CHECA",
	"CHECO": "REPUBLICA CHECA", "CHECA": "REPUBLICA CHECA",
	"SLOVAKIA": "ESLOVAQUIA", "SVK": "ESLOVAQUIA", "SLOVAK": "ESLOVAQUIA", "ESLOVACO": "ESLOVAQUIA",
	"SLOVENIA": "ESLOVENIA", "SVN": "ESLOVENIA", "SLOVENIAN": "ESLOVENIA", "ESLOVENO": "ESLOVENIA",
	"CROATIA": "CROACIA", "HRV": "CROACIA", "CROATIAN": "CROACIA", "CROATA": "CROACIA",
	"SERBIA": "SERBIA", "SRB": "SERBIA", "SERBIAN": "SERBIA", "SERBIO": "SERBIA",
	"ROMANIA": "RUMANIA", "ROU": "RUMANIA", "ROMANIAN": "RUMANIA", "RUMANO": "RUMANIA", "RUMANA": "RUMANIA",
	"BULGARIA": "BULGARIA", "BGR": "BULGARIA", "BULGARIAN": "BULGARIA", "BULGARO": "BULGARIA",
	"LITHUANIA": "LITUANIA", "LTU": "LITUANIA", "LITHUANIAN": "LITUANIA", "LITUANO": "LITUANIA",
	"LUXEMBOURG": "LUXEMBURGO", "LUX": "LUXEMBURGO", "LUXEMBOURGISH": "LUXEMBURGO",
	"UKRAINE": "UCRANIA", "UKR": "UCRANIA", "UKRAINIAN": "UCRANIA", "UCRANIANO": "UCRANIA",
	"UCRANIANA": "UCRANIA",
	"RUSSIA":    "RUSIA", "RUS": "RUSIA", "RUSSIAN": "RUSIA", "RUSSIAN FEDERATION": "RUSIA",
	"RUSO": "RUSIA", "RUSA": "RUSIA",
	"MONACO": "MONACO", "MCO": "MONACO", "MONEGASQUE": "MONACO",
	"HOLY SEE": "SANTA SEDE", "VAT": "SANTA SEDE", "VATICAN": "SANTA SEDE", "VATICANO": "SANTA SEDE",
	"ARMENIA": "ARMENIA", "ARM": "ARMENIA", "ARMENIAN": "ARMENIA", "ARMENIO": "ARMENIA",
	// Americas
	"ARGENTINE": "ARGENTINA", "ARG": "ARGENTINA", "ARGENTINO": "ARGENTINA",
	"ARGENTINE REPUBLIC": "ARGENTINA",
	"BRAZIL":             "BRASIL", "BRA": "BRASIL", "BRAZILIAN": "BRASIL", "BRASILEÑO": "BRASIL",
	"BRASILENO": "BRASIL", "BRASILERA": "BRASIL", "BRASILEIRO": "BRASIL",
	"FEDERATIVE REPUBLIC OF BRAZIL": "BRASIL",
	"MEXICO":                        "MEXICO", "MEX": "MEXICO", "MEXICAN": "MEXICO", "MEXICANO": "MEXICO",
	"MEXICANA": "MEXICO", "UNITED MEXICAN STATES": "MEXICO", "MÉXICO": "MEXICO",
	"CANADA": "CANADA", "CAN": "CANADA", "CANADIAN": "CANADA", "CANADIENSE": "CANADA",
	"CHILE": "CHILE", "CHL": "CHILE", "CHILEAN": "CHILE", "CHILENO": "CHILE", "CHILENA": "CHILE",
	"URUGUAY": "URUGUAY", "URY": "URUGUAY", "URUGUAYAN": "URUGUAY", "URUGUAYO": "URUGUAY",
	"URUGUAYA": "URUGUAY", "ORIENTAL REPUBLIC OF URUGUAY": "URUGUAY",
	"PARAGUAY": "PARAGUAY", "PRY": "PARAGUAY", "PARAGUAYAN": "PARAGUAY", "PARAGUAYO": "PARAGUAY",
	"BOLIVIA": "BOLIVIA", "BOL": "BOLIVIA", "BOLIVIAN": "BOLIVIA", "BOLIVIANO": "BOLIVIA",
	"BOLIVIANA": "BOLIVIA", "PLURINATIONAL STATE OF BOLIVIA": "BOLIVIA",
	"PERU": "PERU", "PER": "PERU", "PERUVIAN": "PERU", "PERUANO": "PERU", "PERUANA": "PERU",
	"ECUADOR": "ECUADOR", "ECU": "ECUADOR", "ECUADORIAN": "ECUADOR", "ECUATORIANO": "ECUADOR",
	"ECUATORIANA": "ECUADOR",
	"COLOMBIA":    "COLOMBIA", "COL": "COLOMBIA", "COLOMBIAN": "COLOMBIA", "COLOMBIANO": "COLOMBIA",
	"COLOMBIANA": "COLOMBIA", "REPUBLIC OF COLOMBIA": "COLOMBIA",
	"VENEZUELA": "VENEZUELA", "VEN": "VENEZUELA", "VENEZUELAN": "VENEZUELA", "VENEZOLANO": "VENEZUELA",
	"VENEZOLANA": "VENEZUELA", "BOLIVARIAN REPUBLIC OF VENEZUELA": "VENEZUELA",
	"CUBA": "CUBA", "CUB": "CUBA", "CUBAN": "CUBA", "CUBANO": "CUBA", "CUBANA": "CUBA",
	"HAITI": "HAITI", "HTI": "HAITI", "HAITIAN": "HAITI", "HAITIANO": "HAITI",
	"JAMAICA": "JAMAICA", "JAM": "JAMAICA", "JAMAICAN": "JAMAICA",
	"DOMINICAN REPUBLIC": "REPUBLICA DOMINICANA", "DOM": "REPUBLICA DOMINICANA",
	"DOMINICANO": "REPUBLICA DOMINICANA", "DOMINICANA": "REPUBLICA DOMINICANA",
	"PUERTO RICO": "PUERTO RICO", "PRI": "PUERTO RICO", "PUERTORRIQUEÑO": "PUERTO RICO",
	"GUATEMALA": "GUATEMALA", "GTM": "GUATEMALA", "GUATEMALAN": "GUATEMALA", "GUATEMALTECO": "GUATEMALA",
	"HONDURAS": "HONDURAS", "HND": "HONDURAS", "HONDURAN": "HONDURAS", "HONDUREÑO": "HONDURAS",
	"NICARAGUA": "NICARAGUA", "NIC": "NICARAGUA", "NICARAGUAN": "NICARAGUA", "NICARAGUENSE": "NICARAGUA",
	"COSTA RICA": "COSTA RICA", "CRI": "COSTA RICA", "COSTA RICAN": "COSTA RICA",
	"COSTARRICENSE": "COSTA RICA",
	"PANAMA":        "PANAMA", "PAN": "PANAMA", "PANAMANIAN": "PANAMA", "PANAMEÑO": "PANAMA",
	"EL SALVADOR": "EL SALVADOR", "SLV": "EL SALVADOR", "SALVADORAN": "EL SALVADOR",
	"SALVADOREÑO": "EL SALVADOR",
	"GUYANA":      "GUYANA", "GUY": "GUYANA", "GUYANESE": "GUYANA",
	"SURINAME": "SURINAME", "SUR": "SURINAME", "SURINAMESE": "SURINAME",
	// Asia / Oceania / Africa / Middle East
	"AUSTRALIA": "AUSTRALIA", "AUS": "AUSTRALIA", "AUSTRALIAN": "AUSTRALIA", "AUSTRALIANO": "AUSTRALIA",
	"NEW ZEALAND": "NUEVA ZELANDA", "NZL": "NUEVA ZELANDA", "NEW ZEALANDER": "NUEVA ZELANDA",
	"NEOZELANDES": "NUEVA ZELANDA",
	"CHINA":       "CHINA", "CHN": "CHINA", "CHINESE": "CHINA", "CHINO": "CHINA", "CHINA2": "CHINA2",
	"PEOPLE'S REPUBLIC OF CHINA": "CHINA",
	"TAIWAN":                     "TAIWAN", "TWN": "TAIWAN", "TAIWANESE": "TAIWAN", "REPUBLIC OF CHINA": "TAIWAN",
	"JAPAN": "JAPON", "JPN": "JAPON", "JAPANESE": "JAPON", "JAPONES": "JAPON", "JAPONESA": "JAPON",
	"SOUTH KOREA": "COREA REPUBLICANA", "KOR": "COREA REPUBLICANA",
	"REPUBLIC OF KOREA": "COREA REPUBLICANA", "KOREAN": "COREA REPUBLICANA", "COREANO": "COREA REPUBLICANA",
	"NORTH KOREA": "COREA DEMOCRATICA", "PRK": "COREA DEMOCRATICA",
	"DEMOCRATIC PEOPLE'S REPUBLIC OF KOREA": "COREA DEMOCRATICA",
	"INDIA":                                 "INDIA", "IND": "INDIA", "INDIAN": "INDIA", "INDIO": "INDIA", "REPUBLIC OF INDIA": "INDIA",
	"INDONESIA": "INDONESIA", "IDN": "INDONESIA", "INDONESIAN": "INDONESIA", "INDONESIO": "INDONESIA",
	"MALAYSIA": "MALASIA", "MYS": "MALASIA", "MALAYSIAN": "MALASIA", "MALASIO": "MALASIA",
	"SINGAPORE": "SINGAPUR", "SGP": "SINGAPUR", "SINGAPOREAN": "SINGAPUR",
	"THAILAND": "TAILANDIA", "THA": "TAILANDIA", "THAI": "TAILANDIA", "TAILANDES": "TAILANDIA",
	"VIETNAM": "VIETNAM", "VNM": "VIETNAM", "VIETNAMESE": "VIETNAM", "VIETNAMITA": "VIETNAM",
	"VIET NAM":    "VIETNAM",
	"PHILIPPINES": "FILIPINAS", "PHL": "FILIPINAS", "FILIPINO": "FILIPINAS", "FILIPINA": "FILIPINAS",
	"ISRAEL": "ISRAEL", "ISR": "ISRAEL", "ISRAELI": "ISRAEL", "ISRAELI CITIZEN": "ISRAEL",
	"JORDAN": "JORDANIA", "JOR": "JORDANIA", "JORDANIAN": "JORDANIA", "JORDANO": "JORDANIA",
	"LEBANON": "LIBANO", "LBN": "LIBANO", "LEBANESE": "LIBANO", "LIBANES": "LIBANO", "LIBANESA": "LIBANO",
	"SYRIA": "SIRIA", "SYR": "SIRIA", "SYRIAN": "SIRIA", "SIRIO": "SIRIA",
	"SYRIAN ARAB REPUBLIC": "SIRIA",
	"TURKEY":               "TURQUIA", "TUR": "TURQUIA", "TURKISH": "TURQUIA", "TURCO": "TURQUIA", "TURCA": "TURQUIA",
	"TURKIYE": "TURQUIA", "REPUBLIC OF TURKIYE": "TURQUIA",
	"EGYPT": "EGIPTO", "EGY": "EGIPTO", "EGYPTIAN": "EGIPTO", "EGIPCIO": "EGIPTO",
	"ARAB REPUBLIC OF EGYPT": "EGIPTO",
	"MOROCCO":                "MARRUECOS", "MAR": "MARRUECOS", "MOROCCAN": "MARRUECOS", "MARROQUI": "MARRUECOS",
	"KINGDOM OF MOROCCO": "MARRUECOS",
	"SOUTH AFRICA":       "SUDAFRICA", "ZAF": "SUDAFRICA", "SOUTH AFRICAN": "SUDAFRICA",
	"SUDAFRICANO": "SUDAFRICA", "REPUBLIC OF SOUTH AFRICA": "SUDAFRICA",
	"KENYA": "KENYA", "KEN": "KENYA", "KENYAN": "KENYA", "KENIANO": "KENYA",
	"SENEGAL": "SENEGAL", "SEN": "SENEGAL", "SENEGALESE": "SENEGAL", "SENEGALES": "SENEGAL",
	"CONGO": "CONGO", "COG": "CONGO", "COD": "CONGO", "CONGOLESE": "CONGO", "CONGOLEÑO": "CONGO",
}

// StandardizeCountry maps a raw country/nationality string to the canonical
// Spanish country name. Unmapped input passes through uppercased and trimmed;
// the caller decides whether an unknown name matters.
func StandardizeCountry(raw string) string {
	upper := strings.ToUpper(strings.TrimSpace(raw))
	if canon, ok := countrySynonyms[upper]; ok {
		return canon
	}
	return upper
}

// CountryCode is a numeric country code that fails open: when the canonical
// name has no numeric mapping, the name itself is carried as text so the
// export never loses information.
type CountryCode struct {
	Number  int
	Text    string
	Numeric bool
}

// GetCountryCode resolves a canonical country name to its export code.
func GetCountryCode(country string) CountryCode {
	if n, ok := countryCodes[country]; ok {
		return CountryCode{Number: n, Numeric: true}
	}
	return CountryCode{Text: country}
}

// Value returns the cell value for export: int when numeric, string otherwise.
func (c CountryCode) Value() any {
	if c.Numeric {
		return c.Number
	}
	return c.Text
}

func (c CountryCode) String() string {
	if c.Numeric {
		return strconv.Itoa(c.Number)
	}
	return c.Text
}
