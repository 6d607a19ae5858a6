// Package tariff provides the Brazilian distributor registry and the default
// regulated tariff components used to pre-populate a projection.
package tariff

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Distributor is a power distribution company (ANEEL data)
type Distributor struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	State     string `json:"state"`
	AneelCode string `json:"aneel_code,omitempty"`
}

var builtinDistributors = []Distributor{
	// Sudeste
	{ID: "CEMIG", Name: "CEMIG Distribuição", State: "MG", AneelCode: "CEMIG-D"},
	{ID: "CPFL", Name: "CPFL Paulista", State: "SP", AneelCode: "CPFL-PAULISTA"},
	{ID: "ENEL-SP", Name: "Enel Distribuição São Paulo", State: "SP", AneelCode: "ENEL-SP"},
	{ID: "ENEL-RJ", Name: "Enel Distribuição Rio", State: "RJ", AneelCode: "ENEL-RJ"},
	{ID: "LIGHT", Name: "Light Serviços de Eletricidade", State: "RJ", AneelCode: "LIGHT"},
	{ID: "EDP-SP", Name: "EDP São Paulo", State: "SP", AneelCode: "EDP-SP"},
	{ID: "EDP-ES", Name: "EDP Espírito Santo", State: "ES", AneelCode: "EDP-ES"},
	{ID: "ELEKTRO", Name: "Elektro Eletricidade e Serviços", State: "SP", AneelCode: "ELEKTRO"},

	// Sul
	{ID: "COPEL", Name: "Copel Distribuição", State: "PR", AneelCode: "COPEL-DIS"},
	{ID: "CELESC", Name: "Celesc Distribuição", State: "SC", AneelCode: "CELESC-DIS"},
	{ID: "RGE", Name: "RGE Sul", State: "RS", AneelCode: "RGE-SUL"},
	{ID: "CEEE-D", Name: "CEEE Distribuição", State: "RS", AneelCode: "CEEE-D"},

	// Nordeste
	{ID: "COELBA", Name: "Coelba - Companhia de Eletricidade da Bahia", State: "BA", AneelCode: "COELBA"},
	{ID: "CELPE", Name: "Celpe - Companhia Energética de Pernambuco", State: "PE", AneelCode: "CELPE"},
	{ID: "COSERN", Name: "Cosern - Companhia Energética do Rio Grande do Norte", State: "RN", AneelCode: "COSERN"},
	{ID: "ENEL-CE", Name: "Enel Distribuição Ceará", State: "CE", AneelCode: "ENEL-CE"},
	{ID: "ENERGISA-PB", Name: "Energisa Paraíba", State: "PB", AneelCode: "EPB"},
	{ID: "ENERGISA-SE", Name: "Energisa Sergipe", State: "SE", AneelCode: "ESE"},
	{ID: "EQUATORIAL-MA", Name: "Equatorial Maranhão", State: "MA", AneelCode: "CEMAR"},
	{ID: "EQUATORIAL-PI", Name: "Equatorial Piauí", State: "PI", AneelCode: "CEPISA"},
	{ID: "EQUATORIAL-AL", Name: "Equatorial Alagoas", State: "AL", AneelCode: "CEAL"},

	// Norte
	{ID: "EQUATORIAL-PA", Name: "Equatorial Pará", State: "PA", AneelCode: "CELPA"},
	{ID: "AMAZONAS", Name: "Amazonas Energia", State: "AM", AneelCode: "AME"},
	{ID: "RORAIMA", Name: "Roraima Energia", State: "RR", AneelCode: "RORAIMA"},
	{ID: "ENERGISA-TO", Name: "Energisa Tocantins", State: "TO", AneelCode: "ETO"},
	{ID: "ENERGISA-RO", Name: "Energisa Rondônia", State: "RO", AneelCode: "CERON"},
	{ID: "ENERGISA-AC", Name: "Energisa Acre", State: "AC", AneelCode: "ELETROACRE"},

	// Centro-Oeste
	{ID: "ENERGISA-MT", Name: "Energisa Mato Grosso", State: "MT", AneelCode: "EMT"},
	{ID: "ENERGISA-MS", Name: "Energisa Mato Grosso do Sul", State: "MS", AneelCode: "EMS"},
	{ID: "ENEL-GO", Name: "Enel Distribuição Goiás", State: "GO", AneelCode: "ENEL-GO"},
	{ID: "CEB", Name: "CEB Distribuição", State: "DF", AneelCode: "CEB-DIS"},
}

// SortByName orders distributors by name using Portuguese collation
func SortByName(ds []Distributor) {
	c := collate.New(language.BrazilianPortuguese, collate.IgnoreCase)
	sort.SliceStable(ds, func(i, j int) bool {
		return c.CompareString(ds[i].Name, ds[j].Name) < 0
	})
}

// Distributors returns a sorted copy of the built-in registry
func Distributors() []Distributor {
	out := make([]Distributor, len(builtinDistributors))
	copy(out, builtinDistributors)
	SortByName(out)
	return out
}

// DistributorByID looks up a built-in distributor
func DistributorByID(id string) (Distributor, bool) {
	for _, d := range builtinDistributors {
		if d.ID == id {
			return d, true
		}
	}
	return Distributor{}, false
}

// resolveDistributor matches an ID, ANEEL code or name (case-insensitive)
func resolveDistributor(ds []Distributor, key string) (Distributor, bool) {
	key = strings.TrimSpace(key)
	if key == "" {
		return Distributor{}, false
	}
	for _, d := range ds {
		if strings.EqualFold(d.ID, key) || strings.EqualFold(d.AneelCode, key) || strings.EqualFold(d.Name, key) {
			return d, true
		}
	}
	return Distributor{}, false
}
