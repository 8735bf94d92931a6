package verify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	lists := DefaultDomainLists()

	tests := []struct {
		domain string
		want   DomainClass
	}{
		{"healthgrades.com", ClassDirectory},
		{"zocdoc.com", ClassDirectory},
		{"webmd.com", ClassDirectory},
		{"yelp.com", ClassDirectory},
		{"findadoctor.org", ClassDirectory},
		{"facebook.com", ClassSocial},
		{"instagram.com", ClassSocial},
		{"x.com", ClassSocial},
		{"med.university.edu", ClassHospital},
		{"health.state.gov", ClassHospital},
		{"mercyhospital.org", ClassHospital},
	}

	for _, tt := range tests {
		t.Run(tt.domain, func(t *testing.T) {
			assert.Equal(t, tt.want, lists.Classify(tt.domain))
		})
	}

	t.Run("site builders", func(t *testing.T) {
		assert.Equal(t, ClassBuilder, lists.Classify("puredental.wixsite.com"))
		assert.Equal(t, ClassBuilder, lists.Classify("puredental.squarespace.com"))
		assert.Equal(t, ClassBuilder, lists.Classify("puredental.wordpress.com"))
	})

	t.Run("unclassified", func(t *testing.T) {
		assert.Equal(t, ClassUnclassified, lists.Classify("puredental.com"))
		assert.Equal(t, ClassUnclassified, lists.Classify(""))
	})

	t.Run("case insensitive", func(t *testing.T) {
		assert.Equal(t, ClassDirectory, lists.Classify("HealthGrades.com"))
	})
}

func TestClassify_PriorityOrder(t *testing.T) {
	// A domain matching both directory and social lists must classify as
	// directory: directory is checked first.
	lists := DomainLists{
		Directories: []string{"healthbook"},
		Social:      []string{"healthbook", "facebook"},
	}
	assert.Equal(t, ClassDirectory, lists.Classify("healthbook.com"))
	assert.Equal(t, ClassSocial, lists.Classify("facebook.com"))
}

func TestIsOfficialSocial(t *testing.T) {
	lists := DefaultDomainLists()
	vc := Context{ProviderName: "Jane Smith", PracticeName: "Pure Dental"}

	tests := []struct {
		name string
		c    Candidate
		want bool
	}{
		{
			"practice name in title",
			Candidate{URL: "https://facebook.com/pg123", Title: "Pure Dental Buffalo"},
			true,
		},
		{
			"practice keyword in url",
			Candidate{URL: "https://facebook.com/smithfamilydental"},
			true,
		},
		{
			"provider name in title",
			Candidate{URL: "https://facebook.com/xyz", Title: "Dr. Jane Smith"},
			true,
		},
		{
			"unrelated page",
			Candidate{URL: "https://facebook.com/groups/buffalo-foodies", Title: "Buffalo Foodies"},
			false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, lists.isOfficialSocial(tt.c, vc))
		})
	}
}
