package dictionary

// Minimal returns the built-in seed dictionary: a handful of common
// Yorùbá words that keep the service usable without any data file.
func Minimal() *Dictionary {
	entries := []*Entry{
		{
			Headword: "ilé",
			POS:      Noun,
			Synonyms: []string{"ilẹ̀", "ibùgbé", "afin", "ààfin", "ìdí"},
		},
		{
			Headword: "ọmọ",
			POS:      Noun,
			Synonyms: []string{"ọmọbíbí", "àbíkẹ́", "arọ́mọdọ́mọ", "ọmọkùnrin", "ọmọbìnrin"},
		},
		{
			Headword: "omi",
			POS:      Noun,
			Synonyms: []string{"ìdàdò", "ìkòrò", "adágún", "odo", "odò"},
		},
		{
			Headword: "dára",
			POS:      Adjective,
			Synonyms: []string{"pẹ̀lẹ́", "rẹwà", "tòótọ́", "dáradára", "ṣàn"},
		},
		{
			Headword: "jẹ",
			POS:      Verb,
			Synonyms: []string{"gbà", "mu", "fẹ́", "gbé", "mú"},
		},
	}
	d := New()
	for _, e := range entries {
		if err := d.Add(e); err != nil {
			panic(err) // built-in data, must be valid
		}
	}
	return d
}
