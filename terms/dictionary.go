// Package terms maps technical vocabulary to fixed target-language forms.
//
// A Dictionary is a two-level table: language tag → lowercase source term →
// canonical rendering in that language. Terms of two languages are linked
// through their canonical form; Apply uses those links to rewrite
// translated text so known terms come out in their canonical target form
// instead of whatever the translation provider produced.
package terms

import "sort"

// Dictionary maps language tag → term → canonical form.
type Dictionary map[string]map[string]string

// Clone returns a deep copy of the dictionary.
func (d Dictionary) Clone() Dictionary {
	out := make(Dictionary, len(d))
	for lang, table := range d {
		copied := make(map[string]string, len(table))
		for term, canonical := range table {
			copied[term] = canonical
		}
		out[lang] = copied
	}
	return out
}

// Languages returns the language tags present in the dictionary, sorted.
func (d Dictionary) Languages() []string {
	langs := make([]string, 0, len(d))
	for lang := range d {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	return langs
}

// Len returns the total number of entries across all languages.
func (d Dictionary) Len() int {
	n := 0
	for _, table := range d {
		n += len(table)
	}
	return n
}

// DefaultDictionary returns the built-in English table that is materialized
// the first time no dictionary file exists.
func DefaultDictionary() Dictionary {
	return Dictionary{
		"en": {
			"api":                     "API",
			"database":                "banco de dados",
			"framework":               "framework",
			"algorithm":               "algoritmo",
			"machine learning":        "aprendizado de máquina",
			"artificial intelligence": "inteligência artificial",
			"cloud computing":         "computação em nuvem",
			"microservices":           "microsserviços",
			"devops":                  "DevOps",
			"kubernetes":              "Kubernetes",
			"docker":                  "Docker",
			"javascript":              "JavaScript",
			"python":                  "Python",
			"react":                   "React",
			"node.js":                 "Node.js",
			"sql":                     "SQL",
			"nosql":                   "NoSQL",
			"rest":                    "REST",
			"json":                    "JSON",
			"xml":                     "XML",
			"html":                    "HTML",
			"css":                     "CSS",
		},
	}
}
