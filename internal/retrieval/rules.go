package retrieval

// The rule tables below are the mock corpus: a handful of canned documents
// keyed by trigger keywords. Rules are evaluated in declaration order and a
// query may match several of them. Matching is case-insensitive substring
// containment, not tokenized - "privacy" matches "nonprivacyrelated" too.
// That imprecision is an accepted property of the mock corpus, not a bug.

var policyRules = []Rule{
	{
		Keywords: []string{"privacy", "data", "information"},
		Doc: Document{
			Content: "Cortivus collects personal information when you register for our services, " +
				"including your name, email address, and organization details. We also collect " +
				"usage data such as IP addresses, browser type, and pages visited to improve our " +
				"services and user experience.",
			Source:    "Privacy Policy - Information Collection",
			Relevance: 0.92,
		},
	},
	{
		Keywords: []string{"account", "registration", "sign"},
		Doc: Document{
			Content: "To use certain features of our services, you must register for an account. " +
				"You are responsible for maintaining the confidentiality of your account credentials " +
				"and for all activities that occur under your account.",
			Source:    "Terms of Service - Account Registration",
			Relevance: 0.88,
		},
	},
	{
		Keywords: []string{"retention", "keep", "store"},
		Doc: Document{
			Content: "Cortivus retains personal data for as long as necessary to provide our services " +
				"and fulfill the purposes outlined in our Privacy Policy. Account information is " +
				"retained while your account is active and for a period afterward for legal and " +
				"business purposes.",
			Source:    "Data Retention Policy - Retention Periods",
			Relevance: 0.85,
		},
	},
}

var sermonRules = []Rule{
	{
		Keywords: []string{"love", "god", "world"},
		Doc: Document{
			Content: "For God so loved the world that he gave his one and only Son, that whoever " +
				"believes in him shall not perish but have eternal life.",
			Source:    "John 3:16",
			Relevance: 0.95,
		},
	},
	{
		Keywords: []string{"peace", "anxiety", "worry"},
		Doc: Document{
			Content: "And we know that in all things God works for the good of those who love him, " +
				"who have been called according to his purpose.",
			Source:    "Romans 8:28",
			Relevance: 0.87,
		},
	},
	{
		Keywords: []string{"shepherd", "guidance", "lead"},
		Doc: Document{
			Content: "The Lord is my shepherd, I lack nothing. He makes me lie down in green " +
				"pastures, he leads me beside quiet waters, he refreshes my soul.",
			Source:    "Psalm 23:1-3",
			Relevance: 0.91,
		},
	},
}

// defaultDocuments hold the single fallback document per mode, returned when
// no rule matches. Default and per-rule results are mutually exclusive.
var defaultDocuments = map[Mode]Document{
	ModePolicy: {
		Content: "Cortivus is committed to protecting your privacy and ensuring the security of " +
			"your data. Our policies are designed to be transparent about how we collect, use, " +
			"and protect your information.",
		Source:    "Cortivus General Policy Statement",
		Relevance: 0.70,
	},
	ModeSermon: {
		Content: "All Scripture is God-breathed and is useful for teaching, rebuking, correcting " +
			"and training in righteousness, so that the servant of God may be thoroughly equipped " +
			"for every good work.",
		Source:    "2 Timothy 3:16-17",
		Relevance: 0.75,
	},
}

var ruleTables = map[Mode][]Rule{
	ModePolicy: policyRules,
	ModeSermon: sermonRules,
}

// RuleTable returns the declared rule table for a mode. The second return is
// false for modes without retrieval.
func RuleTable(mode Mode) ([]Rule, bool) {
	rules, ok := ruleTables[mode]
	return rules, ok
}

// DefaultDocument returns the mode's fallback document.
func DefaultDocument(mode Mode) (Document, bool) {
	doc, ok := defaultDocuments[mode]
	return doc, ok
}
