package resume

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/mehdishayek-png/ai-job-bot/internal/types"
)

// knownSkills is the vocabulary the heuristic path scans for. It is not
// exhaustive; the LLM path exists for everything else.
var knownSkills = []string{
	"python", "go", "golang", "java", "javascript", "typescript", "rust",
	"c++", "c#", "ruby", "php", "swift", "kotlin", "scala",
	"sql", "postgresql", "postgres", "mysql", "mongodb", "redis",
	"kafka", "rabbitmq", "elasticsearch",
	"docker", "kubernetes", "terraform", "ansible",
	"aws", "gcp", "azure",
	"react", "vue", "angular", "node.js", "django", "flask", "spring",
	"machine learning", "deep learning", "nlp", "data engineering",
	"data analysis", "etl", "pandas", "numpy", "spark", "airflow",
	"excel", "tableau", "power bi", "looker",
	"product management", "project management", "agile", "scrum",
	"accounting", "financial modeling", "bookkeeping", "payroll",
	"marketing", "seo", "content writing", "copywriting", "sales",
	"customer support", "recruiting", "operations",
}

var yearsPattern = regexp.MustCompile(`(\d{1,2})\+?\s*years?`)

// HeuristicProfile extracts a profile from resume text without an LLM. It
// scans for known skill terms and a years-of-experience mention.
func HeuristicProfile(resumeText string) types.Profile {
	lower := strings.ToLower(resumeText)

	var skills []string
	seen := make(map[string]bool)
	for _, skill := range knownSkills {
		if seen[skill] {
			continue
		}
		if containsTerm(lower, skill) {
			seen[skill] = true
			skills = append(skills, skill)
		}
	}

	years := 0
	if m := yearsPattern.FindStringSubmatch(lower); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			years = n
		}
	}

	return types.Profile{
		Name:            firstLine(resumeText),
		Headline:        headlineFromSkills(skills),
		Skills:          skills,
		YearsExperience: years,
	}
}

// containsTerm reports whether term occurs in text bounded by non-letter,
// non-digit characters, so "go" does not match inside "algorithms".
func containsTerm(text, term string) bool {
	for start := 0; ; {
		idx := strings.Index(text[start:], term)
		if idx < 0 {
			return false
		}
		idx += start
		end := idx + len(term)
		beforeOK := idx == 0 || !isWordByte(text[idx-1])
		afterOK := end == len(text) || !isWordByte(text[end])
		if beforeOK && afterOK {
			return true
		}
		start = idx + 1
	}
}

func isWordByte(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b >= '0' && b <= '9'
}

// firstLine returns the first non-empty line, trimmed, if it looks like a
// name rather than a section header.
func firstLine(text string) string {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if len(line) > 60 || strings.ContainsAny(line, "@:/") {
			return ""
		}
		return line
	}
	return ""
}

func headlineFromSkills(skills []string) string {
	if len(skills) == 0 {
		return ""
	}
	n := len(skills)
	if n > 3 {
		n = 3
	}
	return strings.Join(skills[:n], ", ")
}
