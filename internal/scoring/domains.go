package scoring

import "strings"

// Domain is an occupational category and the lowercase phrases that signal it.
type Domain struct {
	Name     string   `json:"name"`
	Keywords []string `json:"keywords"`
}

// DefaultDomains is the built-in domain table. Order decides ties.
var DefaultDomains = []Domain{
	{Name: "Software Engineering", Keywords: []string{"software", "development"}},
	{Name: "Data Science", Keywords: []string{"data analysis", "python"}},
	{Name: "Machine Learning", Keywords: []string{"machine learning"}},
	{Name: "Cloud Computing", Keywords: []string{"cloud", "aws"}},
}

// DetectDomain returns the domain with the most keywords present in the job
// description. Only a strictly higher count displaces an earlier domain, so
// ties keep the first. ok is false when no keyword appears at all.
func DetectDomain(jobDescription string, domains []Domain) (domain Domain, ok bool) {
	jd := strings.ToLower(jobDescription)
	best := 0
	for _, d := range domains {
		hits := 0
		for _, kw := range d.Keywords {
			if kw != "" && strings.Contains(jd, strings.ToLower(kw)) {
				hits++
			}
		}
		if hits > best {
			best = hits
			domain = d
			ok = true
		}
	}
	return domain, ok
}

// KeywordBoost returns the share of the domain's keywords found in both
// texts, scaled to 25 points, and the keywords that matched.
func KeywordBoost(resumeText, jobDescription string, domain Domain) (float64, []string) {
	if len(domain.Keywords) == 0 {
		return 0, nil
	}
	resume := strings.ToLower(resumeText)
	jd := strings.ToLower(jobDescription)

	var matched []string
	for _, kw := range domain.Keywords {
		k := strings.ToLower(kw)
		if k != "" && strings.Contains(resume, k) && strings.Contains(jd, k) {
			matched = append(matched, kw)
		}
	}
	return float64(len(matched)) / float64(len(domain.Keywords)) * keywordBoostPoints, matched
}
