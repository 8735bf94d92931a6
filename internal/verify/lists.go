package verify

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// DomainLists holds the fixed domain and keyword lists the engine matches
// against. They are data, not code: the defaults below ship with the binary
// and a YAML file can override any of them.
type DomainLists struct {
	Directories     []string `yaml:"directories"`
	Social          []string `yaml:"social"`
	HospitalMarkers []string `yaml:"hospital_markers"`
	SiteBuilders    []string `yaml:"site_builders"`
	PracticeWords   []string `yaml:"practice_keywords"`
}

// DefaultDomainLists returns the built-in lists.
func DefaultDomainLists() DomainLists {
	return DomainLists{
		Directories: []string{
			"healthgrades", "vitals.com", "zocdoc", "webmd", "yelp",
			"yellowpages", "ratemds", "wellness.com", "doctor.com",
			"npino", "docinfo", "findadoctor",
		},
		Social: []string{
			"facebook", "instagram", "linkedin", "twitter", "x.com",
			"youtube", "tiktok",
		},
		HospitalMarkers: []string{
			".edu", ".gov", "hospital", "kaiser", "mayoclinic",
			"clevelandclinic", "ascension", "hcahealthcare", "commonspirit",
		},
		SiteBuilders: []string{
			"wix", "squarespace", "weebly", "wordpress.com",
		},
		PracticeWords: []string{
			"dental", "medical", "clinic", "practice", "office", "center",
			"health", "orthodontic", "pediatric", "family", "cosmetic",
			"implant", "surgery", "wellness", "ortho",
		},
	}
}

// LoadDomainLists reads a YAML list file. Lists omitted from the file keep
// their defaults.
func LoadDomainLists(path string) (DomainLists, error) {
	lists := DefaultDomainLists()

	data, err := os.ReadFile(path)
	if err != nil {
		return lists, eris.Wrapf(err, "verify: read lists file %s", path)
	}

	var override DomainLists
	if err := yaml.Unmarshal(data, &override); err != nil {
		return lists, eris.Wrapf(err, "verify: parse lists file %s", path)
	}

	if len(override.Directories) > 0 {
		lists.Directories = override.Directories
	}
	if len(override.Social) > 0 {
		lists.Social = override.Social
	}
	if len(override.HospitalMarkers) > 0 {
		lists.HospitalMarkers = override.HospitalMarkers
	}
	if len(override.SiteBuilders) > 0 {
		lists.SiteBuilders = override.SiteBuilders
	}
	if len(override.PracticeWords) > 0 {
		lists.PracticeWords = override.PracticeWords
	}

	return lists, nil
}
