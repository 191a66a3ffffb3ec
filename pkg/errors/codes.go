package errors

// ErrorCode is a string representation of a specific error condition.
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common Error Codes
const (
	ErrCodeInternal      ErrorCode = "COMMON_001"
	ErrCodeBadRequest    ErrorCode = "COMMON_002"
	ErrCodeNotFound      ErrorCode = "COMMON_005"
	ErrCodeTimeout       ErrorCode = "COMMON_009"
	ErrCodeSerialization ErrorCode = "COMMON_011"
	ErrCodeIO            ErrorCode = "COMMON_012"
	ErrCodeStorage       ErrorCode = "COMMON_013"
	ErrCodeExternalTool  ErrorCode = "COMMON_014"
)

// Configuration Error Codes
const (
	ErrCodeConfigInvalid ErrorCode = "CFG_001"
	ErrCodeConfigRead    ErrorCode = "CFG_002"
)

// Preparation Error Codes
const (
	ErrCodeInvalidStructure  ErrorCode = "PREP_001"
	ErrCodeConversionFailed  ErrorCode = "PREP_002"
	ErrCodeMoleculeTableRead ErrorCode = "PREP_003"
)

// Docking Error Codes
const (
	ErrCodeDockingFailed  ErrorCode = "DOCK_001"
	ErrCodeDockingTimeout ErrorCode = "DOCK_002"
)

// Log Parsing Error Codes
const (
	ErrCodeLogParseFailed ErrorCode = "PARSE_001"
	ErrCodeSummaryRead    ErrorCode = "PARSE_002"
)

// Aggregation Error Codes
const (
	ErrCodeTargetMissing ErrorCode = "AGG_001"
)

// Short aliases used at call sites.
const (
	CodeOK      = ErrorCode("OK")
	CodeUnknown = ErrorCode("UNKNOWN")

	CodeInternal      = ErrCodeInternal
	CodeInvalidParam  = ErrCodeBadRequest
	CodeNotFound      = ErrCodeNotFound
	CodeTimeout       = ErrCodeTimeout
	CodeSerialization = ErrCodeSerialization
	CodeIO            = ErrCodeIO
	CodeStorage       = ErrCodeStorage
	CodeExternalTool  = ErrCodeExternalTool

	CodeConfigInvalid = ErrCodeConfigInvalid
	CodeConfigRead    = ErrCodeConfigRead

	CodeInvalidStructure  = ErrCodeInvalidStructure
	CodeConversionFailed  = ErrCodeConversionFailed
	CodeMoleculeTableRead = ErrCodeMoleculeTableRead

	CodeDockingFailed  = ErrCodeDockingFailed
	CodeDockingTimeout = ErrCodeDockingTimeout

	CodeLogParseFailed = ErrCodeLogParseFailed
	CodeSummaryRead    = ErrCodeSummaryRead

	CodeTargetMissing = ErrCodeTargetMissing
)

// Kind groups error codes into the pipeline's failure classes.
type Kind string

const (
	KindNone        Kind = ""
	KindPreparation Kind = "preparation"
	KindDocking     Kind = "docking"
	KindParse       Kind = "parse"
	KindAggregation Kind = "aggregation"
	KindConfig      Kind = "config"
	KindOther       Kind = "other"
)

// codeKind maps codes to their failure class.
var codeKind = map[ErrorCode]Kind{
	ErrCodeInvalidStructure:  KindPreparation,
	ErrCodeConversionFailed:  KindPreparation,
	ErrCodeMoleculeTableRead: KindPreparation,
	ErrCodeDockingFailed:     KindDocking,
	ErrCodeDockingTimeout:    KindDocking,
	ErrCodeLogParseFailed:    KindParse,
	ErrCodeSummaryRead:       KindParse,
	ErrCodeTargetMissing:     KindAggregation,
	ErrCodeConfigInvalid:     KindConfig,
	ErrCodeConfigRead:        KindConfig,
}

// Kind returns the failure class of the code.  Per-item kinds (preparation,
// docking, parse) are never fatal to a batch.
func (c ErrorCode) Kind() Kind {
	if c == CodeOK {
		return KindNone
	}
	if k, ok := codeKind[c]; ok {
		return k
	}
	return KindOther
}

// ErrorCodeMessage maps ErrorCodes to default messages.
var ErrorCodeMessage = map[ErrorCode]string{
	ErrCodeInternal:          "internal error",
	ErrCodeBadRequest:        "invalid parameter",
	ErrCodeNotFound:          "not found",
	ErrCodeTimeout:           "operation timed out",
	ErrCodeSerialization:     "serialization failed",
	ErrCodeIO:                "filesystem operation failed",
	ErrCodeStorage:           "artifact storage failed",
	ErrCodeExternalTool:      "external tool failed",
	ErrCodeConfigInvalid:     "invalid configuration",
	ErrCodeConfigRead:        "configuration could not be read",
	ErrCodeInvalidStructure:  "invalid molecule structure",
	ErrCodeConversionFailed:  "structure conversion failed",
	ErrCodeMoleculeTableRead: "molecule table could not be read",
	ErrCodeDockingFailed:     "docking engine exited with an error",
	ErrCodeDockingTimeout:    "docking engine did not finish in time",
	ErrCodeLogParseFailed:    "docking log could not be parsed",
	ErrCodeSummaryRead:       "summary table could not be read",
	ErrCodeTargetMissing:     "target data missing",
}

// DefaultMessage returns the default message for code, or the code itself.
func DefaultMessage(code ErrorCode) string {
	if msg, ok := ErrorCodeMessage[code]; ok {
		return msg
	}
	return code.String()
}

//Personal.AI order the ending
