package domain

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Neighborhood - нормализованное представление района (bairro).
// На входе бывает либо просто строка, либо пара {region, neighborhood};
// обе формы приводятся к этой структуре сразу на границе (см. rest.NeighborhoodInput).
type Neighborhood struct {
	Region string
	Name   string
}

// NewNeighborhood нормализует пробелы в обоих полях.
func NewNeighborhood(region, name string) Neighborhood {
	return Neighborhood{
		Region: collapseSpaces(region),
		Name:   collapseSpaces(name),
	}
}

// IsZero - район (bairro) не указан.
func (n Neighborhood) IsZero() bool {
	return n.Name == "" && n.Region == ""
}

// DisplayName возвращает название в виде, пригодном для поиска адреса ("jardim dos estados" -> "Jardim Dos Estados").
func (n Neighborhood) DisplayName() string {
	if n.Name == "" {
		return ""
	}
	return cases.Title(language.BrazilianPortuguese).String(n.Name)
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
