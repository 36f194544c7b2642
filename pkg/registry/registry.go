// Package registry is the single source of truth for what makes a
// student profile "complete": the required profile field keys and the
// required document types. Both the scorer and any client-side
// validation must consume this package rather than keeping their own
// lists, so the two can never drift apart.
package registry

// Field keys use the JSON names of the profile payload.
const (
	FieldCNIC                  = "cnic"
	FieldGuardianName          = "guardianName"
	FieldGuardianCNIC          = "guardianCnic"
	FieldAddress               = "address"
	FieldCity                  = "city"
	FieldProvince              = "province"
	FieldUniversity            = "university"
	FieldProgram               = "program"
	FieldGPA                   = "gpa"
	FieldGradYear              = "gradYear"
	FieldCurrentInstitution    = "currentInstitution"
	FieldCurrentCity           = "currentCity"
	FieldCurrentCompletionYear = "currentCompletionYear"
)

// requiredFields is ordered the way the profile form presents them.
// Phone is deliberately absent: "at least one phone number" is a
// schema-level rule, not a flat presence check.
var requiredFields = []string{
	FieldCNIC,
	FieldGuardianName,
	FieldGuardianCNIC,
	FieldAddress,
	FieldCity,
	FieldProvince,
	FieldUniversity,
	FieldProgram,
	FieldGPA,
	FieldGradYear,
	FieldCurrentInstitution,
	FieldCurrentCity,
	FieldCurrentCompletionYear,
}

// DocumentType tags an uploaded document. The set is closed.
type DocumentType string

const (
	DocCNIC                  DocumentType = "CNIC"
	DocGuardianCNIC          DocumentType = "GUARDIAN_CNIC"
	DocSSCResult             DocumentType = "SSC_RESULT"
	DocHSSCResult            DocumentType = "HSSC_RESULT"
	DocPhoto                 DocumentType = "PHOTO"
	DocFeeInvoice            DocumentType = "FEE_INVOICE"
	DocIncomeCertificate     DocumentType = "INCOME_CERTIFICATE"
	DocUtilityBill           DocumentType = "UTILITY_BILL"
	DocUniversityCard        DocumentType = "UNIVERSITY_CARD"
	DocEnrollmentCertificate DocumentType = "ENROLLMENT_CERTIFICATE"
	DocTranscript            DocumentType = "TRANSCRIPT"
	DocOther                 DocumentType = "OTHER"
)

// requiredDocuments are the types review needs before approval.
// SSC_RESULT and OTHER are tracked but never required.
var requiredDocuments = []DocumentType{
	DocCNIC,
	DocGuardianCNIC,
	DocHSSCResult,
	DocPhoto,
	DocFeeInvoice,
	DocIncomeCertificate,
	DocUtilityBill,
	DocUniversityCard,
	DocEnrollmentCertificate,
	DocTranscript,
}

var fieldNames = map[string]string{
	FieldCNIC:                  "CNIC",
	FieldGuardianName:          "Guardian Name",
	FieldGuardianCNIC:          "Guardian CNIC",
	FieldAddress:               "Address",
	FieldCity:                  "City",
	FieldProvince:              "Province",
	FieldUniversity:            "University",
	FieldProgram:               "Program",
	FieldGPA:                   "GPA",
	FieldGradYear:              "Graduation Year",
	FieldCurrentInstitution:    "Completed Institution",
	FieldCurrentCity:           "Completed Institution City",
	FieldCurrentCompletionYear: "Completion Year",
}

// RequiredFields returns a copy; callers must not be able to mutate the
// registry.
func RequiredFields() []string {
	out := make([]string, len(requiredFields))
	copy(out, requiredFields)
	return out
}

// RequiredDocuments returns a copy of the required document-type set.
func RequiredDocuments() []DocumentType {
	out := make([]DocumentType, len(requiredDocuments))
	copy(out, requiredDocuments)
	return out
}

// ValidDocumentType reports whether t belongs to the closed set.
func ValidDocumentType(t DocumentType) bool {
	switch t {
	case DocCNIC, DocGuardianCNIC, DocSSCResult, DocHSSCResult, DocPhoto,
		DocFeeInvoice, DocIncomeCertificate, DocUtilityBill,
		DocUniversityCard, DocEnrollmentCertificate, DocTranscript, DocOther:
		return true
	}
	return false
}

// ReadableFieldName maps a field key to its display name, falling back
// to the key itself for unknown fields.
func ReadableFieldName(key string) string {
	if n, ok := fieldNames[key]; ok {
		return n
	}
	return key
}

// ReadableFieldNames maps a list of field keys to display names.
func ReadableFieldNames(keys []string) []string {
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, ReadableFieldName(k))
	}
	return out
}
