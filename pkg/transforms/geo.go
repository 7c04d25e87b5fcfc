package transforms

import "strings"

// usStates maps full state names (lowercased) to their two-letter codes.
var usStates = map[string]string{
	"alabama": "AL", "alaska": "AK", "arizona": "AZ", "arkansas": "AR",
	"california": "CA", "colorado": "CO", "connecticut": "CT", "delaware": "DE",
	"district of columbia": "DC", "florida": "FL", "georgia": "GA",
	"hawaii": "HI", "idaho": "ID", "illinois": "IL", "indiana": "IN",
	"iowa": "IA", "kansas": "KS", "kentucky": "KY", "louisiana": "LA",
	"maine": "ME", "maryland": "MD", "massachusetts": "MA", "michigan": "MI",
	"minnesota": "MN", "mississippi": "MS", "missouri": "MO", "montana": "MT",
	"nebraska": "NE", "nevada": "NV", "new hampshire": "NH", "new jersey": "NJ",
	"new mexico": "NM", "new york": "NY", "north carolina": "NC",
	"north dakota": "ND", "ohio": "OH", "oklahoma": "OK", "oregon": "OR",
	"pennsylvania": "PA", "puerto rico": "PR", "rhode island": "RI",
	"south carolina": "SC", "south dakota": "SD", "tennessee": "TN",
	"texas": "TX", "utah": "UT", "vermont": "VT", "virginia": "VA",
	"washington": "WA", "west virginia": "WV", "wisconsin": "WI",
	"wyoming": "WY",
}

var usStateCodes = func() map[string]bool {
	codes := make(map[string]bool, len(usStates))
	for _, code := range usStates {
		codes[code] = true
	}
	return codes
}()

// countries maps full country names (lowercased) to the target system's
// country codes. Partial table; the source data is overwhelmingly US/CA.
var countries = map[string]string{
	"united states": "US", "united states of america": "US", "usa": "US",
	"canada": "CA", "mexico": "MX", "united kingdom": "GB",
	"great britain": "GB", "england": "GB", "germany": "DE", "france": "FR",
	"italy": "IT", "spain": "ES", "netherlands": "NL", "belgium": "BE",
	"switzerland": "CH", "austria": "AT", "ireland": "IE", "sweden": "SE",
	"norway": "NO", "denmark": "DK", "finland": "FI", "poland": "PL",
	"portugal": "PT", "greece": "GR", "japan": "JP", "china": "CN",
	"south korea": "KR", "india": "IN", "australia": "AU",
	"new zealand": "NZ", "brazil": "BR", "argentina": "AR", "chile": "CL",
	"colombia": "CO", "israel": "IL", "south africa": "ZA",
	"singapore": "SG", "taiwan": "TW", "hong kong": "HK",
}

var countryCodes = func() map[string]bool {
	codes := make(map[string]bool, len(countries))
	for _, code := range countries {
		codes[code] = true
	}
	return codes
}()

// StateCode resolves a full US state name or a two-letter code to the code,
// returning "" when unrecognized.
func StateCode(value string) string {
	cleaned := CollapseWhitespace(value)
	if cleaned == "" {
		return ""
	}
	if code := strings.ToUpper(cleaned); usStateCodes[code] {
		return code
	}
	return usStates[strings.ToLower(cleaned)]
}

// CountryCode resolves a country name or code, returning "" when
// unrecognized.
func CountryCode(value string) string {
	cleaned := CollapseWhitespace(value)
	if cleaned == "" {
		return ""
	}
	if code := strings.ToUpper(cleaned); countryCodes[code] {
		return code
	}
	return countries[strings.ToLower(cleaned)]
}
