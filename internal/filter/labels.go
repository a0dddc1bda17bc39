package filter

type labelMapping struct {
	label string
	code  string
}

// Declaration order matters for the reverse lookups: the first label listed for a
// code is the one shown to users.
var (
	typeMappings = []labelMapping{
		{"Store Transaction", "deposit"},
		{"Get Tipped", "tipped"},
		{"Chargebacks", "chargebacks"},
		{"Cashbacks", "cashbacks"},
		{"Refer & Earn", "referral"},
		{"Withdrawal", "withdrawal"},
		{"Withdrawals", "withdrawal"},
	}

	statusMappings = []labelMapping{
		{"Successful", "successful"},
		{"Pending", "pending"},
		{"Failed", "failed"},
	}

	typeOptions = []string{
		"Store Transaction",
		"Get Tipped",
		"Withdrawals",
		"Chargebacks",
		"Cashbacks",
		"Refer & Earn",
	}

	typeCodeByLabel   = indexByLabel(typeMappings)
	statusCodeByLabel = indexByLabel(statusMappings)
)

// TypeCode maps a transaction-type UI label to its API code
func TypeCode(label string) (string, bool) {
	code, ok := typeCodeByLabel[label]
	return code, ok
}

// StatusCode maps a transaction-status UI label to its API code
func StatusCode(label string) (string, bool) {
	code, ok := statusCodeByLabel[label]
	return code, ok
}

// TypeCodes maps labels to API codes, silently dropping labels it does not know
func TypeCodes(labels []string) []string {
	return mapLabels(labels, typeCodeByLabel)
}

// StatusCodes maps labels to API codes, silently dropping labels it does not know
func StatusCodes(labels []string) []string {
	return mapLabels(labels, statusCodeByLabel)
}

// UnknownTypeLabels returns the labels TypeCodes would drop
func UnknownTypeLabels(labels []string) []string {
	return unknownLabels(labels, typeCodeByLabel)
}

// UnknownStatusLabels returns the labels StatusCodes would drop
func UnknownStatusLabels(labels []string) []string {
	return unknownLabels(labels, statusCodeByLabel)
}

// TypeLabel returns the UI label for a transaction-type API code
func TypeLabel(code string) (string, bool) {
	return reverseLookup(typeMappings, code)
}

// StatusLabel returns the UI label for a transaction-status API code
func StatusLabel(code string) (string, bool) {
	return reverseLookup(statusMappings, code)
}

// TypeOptions lists the transaction-type labels offered by the filter panel
func TypeOptions() []string {
	return append([]string(nil), typeOptions...)
}

// StatusOptions lists the transaction-status labels offered by the filter panel
func StatusOptions() []string {
	options := make([]string, 0, len(statusMappings))
	for _, m := range statusMappings {
		options = append(options, m.label)
	}
	return options
}

func indexByLabel(mappings []labelMapping) map[string]string {
	index := make(map[string]string, len(mappings))
	for _, m := range mappings {
		index[m.label] = m.code
	}
	return index
}

func mapLabels(labels []string, table map[string]string) []string {
	codes := make([]string, 0, len(labels))
	for _, label := range labels {
		if code, ok := table[label]; ok {
			codes = append(codes, code)
		}
	}
	return codes
}

func unknownLabels(labels []string, table map[string]string) []string {
	var unknown []string
	for _, label := range labels {
		if _, ok := table[label]; !ok {
			unknown = append(unknown, label)
		}
	}
	return unknown
}

func reverseLookup(mappings []labelMapping, code string) (string, bool) {
	for _, m := range mappings {
		if m.code == code {
			return m.label, true
		}
	}
	return "", false
}
