package inquiry

import (
	"fmt"
	"strings"
)

type Occasion string

const (
	OccasionNone        Occasion = "None"
	OccasionAnniversary Occasion = "Anniversary"
	OccasionBirthday    Occasion = "Birthday"
	OccasionHoneymoon   Occasion = "Honeymoon"
	OccasionBusiness    Occasion = "Business"
	OccasionOther       Occasion = "Other"
)

var occasions = []Occasion{
	OccasionNone,
	OccasionAnniversary,
	OccasionBirthday,
	OccasionHoneymoon,
	OccasionBusiness,
	OccasionOther,
}

func Occasions() []Occasion {
	return append([]Occasion(nil), occasions...)
}

func ParseOccasion(s string) (Occasion, error) {
	s = strings.TrimSpace(s)
	for _, o := range occasions {
		if strings.EqualFold(string(o), s) {
			return o, nil
		}
	}
	return "", fmt.Errorf("unknown occasion %q", s)
}
