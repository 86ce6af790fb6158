package resource

// Namespace is the base IRI prefix for resource vocabulary terms.
const Namespace = "https://semrdf.dev/ontology/resource/"

// Standard ontology IRI constants for mappings.
const (
	// ProvGeneratedAtTime is the PROV-O generation timestamp.
	ProvGeneratedAtTime = "http://www.w3.org/ns/prov#generatedAtTime"

	// ProvWasDerivedFrom is the PROV-O derivation property.
	ProvWasDerivedFrom = "http://www.w3.org/ns/prov#wasDerivedFrom"

	// DcIdentifier is the Dublin Core identifier property.
	DcIdentifier = "http://purl.org/dc/terms/identifier"
)
