package generationdto

type GenerationMode string

const (
	ModeSequential GenerationMode = "sequential"
	ModeImported   GenerationMode = "imported"
	ModeHybrid     GenerationMode = "hybrid"
)

type GenerateLinksInput struct {
	ProjectID string
	Mode      GenerationMode

	// sequential / hybrid
	SeedRespID string
	TestCount  int
	LiveCount  int

	// imported / hybrid
	ImportedIDs []string

	// empty = one link per respId, unrestricted pool
	VendorIDs []string
}
