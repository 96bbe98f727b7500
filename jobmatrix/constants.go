package jobmatrix

// Method names used to prefix errors.
const (
	MethodAddAxis        = "AddAxis"
	MethodExclude        = "Exclude"
	MethodGenerateRow    = "GenerateRow"
	MethodSetNamePattern = "SetNamePattern"
	MethodGenerateRows   = "GenerateRows"

	MethodFailOnUnsatisfiableFilters = "FailOnUnsatisfiableFilters"
)

// Defaults applied by newBuilderConfig.
const (
	// DefaultSeed seeds the sampler when no Source is configured, so an
	// unconfigured builder is reproducible.
	DefaultSeed int64 = 1
	// DefaultSeparator joins title fragments in row names.
	DefaultSeparator = ", "
	// DefaultAttemptFactor bounds sampling at target*factor draws.
	DefaultAttemptFactor = 100
	// DefaultMinAttempts is the floor of the sampling budget for small targets.
	DefaultMinAttempts = 1000
	// DefaultPinSearchLimit bounds the rows composed while resolving one pin.
	DefaultPinSearchLimit = 10000
)
