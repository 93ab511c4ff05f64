package problems

// Error/warning codes, grouped by phase, following the taxonomy spec.md §7
// lays out and the teacher's internal/errors/codes.go convention of one
// named Go constant per code with a doc comment explaining it.
const (
	// Lexical / parse (PAR###)
	PAR001UnexpectedToken     = "PAR001"
	PAR002UnterminatedString  = "PAR002"
	PAR003InvalidNumber       = "PAR003"
	PAR004MissingDelimiter    = "PAR004"
	PAR005InvalidImport       = "PAR005"
	PAR006InvalidPattern      = "PAR006"
	PAR007InvalidTypeAnnot    = "PAR007"
	PAR008InvalidBitArrayOpt  = "PAR008"

	// Name resolution (IMP###/RES###)
	RES001UnknownVariable        = "RES001"
	IMP001UnknownModule          = "IMP001"
	IMP002UnknownModuleValue     = "IMP002"
	IMP003UnknownModuleType      = "IMP003"
	IMP004ModuleAliasUsedAsName  = "IMP004"
	RES002DuplicateName          = "RES002"
	RES003DuplicateTypeParameter = "RES003"
	RES004DuplicateField         = "RES004"
	RES005ReservedModuleName     = "RES005"
	RES006KeywordInModuleName    = "RES006"
	IMP005TransitiveDependency   = "IMP005"

	// Types (TYP###)
	TYP001UnifyError            = "TYP001"
	TYP002NotATuple             = "TYP002"
	TYP003OutOfBoundsTupleIndex = "TYP003"
	TYP004RecordAccessUnknown   = "TYP004"
	TYP005UnknownRecordField    = "TYP005"
	TYP006RecursiveTypeAlias    = "TYP006"
	TYP007PrivateTypeLeak       = "TYP007"
	TYP008NonLocalClauseGuard   = "TYP008"
	TYP009UpdateMultiCtorType   = "TYP009"

	// Arity / labels (ARI###)
	ARI001IncorrectArity    = "ARI001"
	ARI002UnexpectedLabel   = "ARI002"
	ARI003UnknownLabel      = "ARI003"

	// Exhaustiveness (EXH###)
	EXH001InexhaustiveCase = "EXH001"
	EXH002InexhaustiveLet  = "EXH002"
	EXH003UnreachableClause = "EXH003"

	// Target support (TGT###)
	TGT001UnsupportedExpression     = "TGT001"
	TGT002UnsupportedPublicFunction = "TGT002"
	TGT003NoImplementation          = "TGT003"
	TGT004ExternalMissingAnnotation = "TGT004"
	TGT005InvalidExternalNixModule  = "TGT005"
	TGT006InvalidExternalNixFunction = "TGT006"

	// Config / manifest (CFG###)
	CFG001DuplicateDependency      = "CFG001"
	CFG002CorruptManifest          = "CFG002"
	CFG003IncompatibleCompiler     = "CFG003"
	CFG004InvalidProjectNameFormat = "CFG004"

	// Code generation (NIX###)
	NIX001Unsupported            = "NIX001"
	NIX002NonByteAlignedBitArray = "NIX002"
	NIX003BadSegmentOptions      = "NIX003"

	// Native-file copier (NTV###)
	NTV001DuplicateSourceFile      = "NTV001"
	NTV002ClashingGleamAndNative   = "NTV002"
	NTV003DuplicateErlangModule    = "NTV003"

	// Warnings (WRN###)
	WRN001Todo                     = "WRN001"
	WRN002DeprecatedItem           = "WRN002"
	WRN003UnusedImport             = "WRN003"
	WRN004UnusedValue              = "WRN004"
	WRN005UnusedType               = "WRN005"
	WRN006ImplicitlyDiscardedResult = "WRN006"
	WRN007DoubleNegation           = "WRN007"
	WRN008InefficientEmptyListCheck = "WRN008"
	WRN009CaseMatchOnLiteral       = "WRN009"
	WRN010RedundantAssertAssignment = "WRN010"
	WRN011AllFieldsRecordUpdate    = "WRN011"
	WRN012NoFieldsRecordUpdate     = "WRN012"
	WRN013UnreachableAfterPanic    = "WRN013"
	WRN014OpaqueExternalType       = "WRN014"
	WRN015TodoOrPanicAsFunction    = "WRN015"
)
