// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"
)

// DefaultQueries is the curated PubMed query sweep covering the major aging
// theories plus interventions and model organisms. Source adapters that do
// not understand PubMed field syntax strip the [Title/Abstract] markers
// before use.
var DefaultQueries = []string{
	// General aging
	"senescence mechanisms[Title/Abstract]",
	"aging biology[Title/Abstract]",
	"longevity[Title/Abstract] AND mechanisms",
	"age-related diseases[Title/Abstract]",
	"biological aging[Title/Abstract]",
	"hallmarks of aging[Title/Abstract]",
	"aging theories[Title/Abstract]",

	// Free radical theory
	"oxidative stress[Title/Abstract] AND aging",
	"reactive oxygen species[Title/Abstract] AND aging",
	"ROS[Title/Abstract] AND senescence",
	"antioxidants[Title/Abstract] AND longevity",
	"free radicals[Title/Abstract] AND aging",

	// Telomere shortening
	"telomere[Title/Abstract] AND aging",
	"telomerase[Title/Abstract] AND senescence",
	"telomere shortening[Title/Abstract]",
	"telomere attrition[Title/Abstract]",
	"telomere length[Title/Abstract] AND longevity",

	// Mitochondrial dysfunction
	"mitochondrial dysfunction[Title/Abstract] AND aging",
	"mitochondria[Title/Abstract] AND senescence",
	"mitochondrial decline[Title/Abstract]",
	"mitophagy[Title/Abstract] AND aging",
	"mitochondrial biogenesis[Title/Abstract] AND aging",

	// Cellular senescence
	"cellular senescence[Title/Abstract]",
	"senescent cells[Title/Abstract]",
	"senolytics[Title/Abstract]",
	"SASP[Title/Abstract] AND aging",
	"senescence-associated secretory phenotype[Title/Abstract]",

	// Stem cell exhaustion
	"stem cell exhaustion[Title/Abstract]",
	"stem cell aging[Title/Abstract]",
	"stem cell decline[Title/Abstract]",
	"hematopoietic stem cells[Title/Abstract] AND aging",
	"regenerative capacity[Title/Abstract] AND aging",

	// Altered intercellular communication
	"intercellular communication[Title/Abstract] AND aging",
	"inflammaging[Title/Abstract]",
	"chronic inflammation[Title/Abstract] AND aging",
	"cytokines[Title/Abstract] AND senescence",
	"paracrine signaling[Title/Abstract] AND aging",

	// Loss of proteostasis
	"proteostasis[Title/Abstract] AND aging",
	"protein aggregation[Title/Abstract] AND aging",
	"autophagy[Title/Abstract] AND senescence",
	"unfolded protein response[Title/Abstract] AND aging",
	"chaperones[Title/Abstract] AND aging",
	"proteasome[Title/Abstract] AND aging",

	// Deregulated nutrient sensing
	"mTOR[Title/Abstract] AND aging",
	"nutrient sensing[Title/Abstract] AND aging",
	"insulin signaling[Title/Abstract] AND longevity",
	"IGF-1[Title/Abstract] AND aging",
	"AMPK[Title/Abstract] AND aging",
	"caloric restriction[Title/Abstract]",

	// Genomic instability
	"genomic instability[Title/Abstract] AND aging",
	"DNA damage[Title/Abstract] AND aging",
	"DNA repair[Title/Abstract] AND senescence",
	"chromosomal instability[Title/Abstract] AND aging",
	"mutation accumulation[Title/Abstract] AND aging",

	// Epigenetic alterations
	"epigenetic alterations[Title/Abstract] AND aging",
	"DNA methylation[Title/Abstract] AND aging",
	"histone modifications[Title/Abstract] AND aging",
	"chromatin remodeling[Title/Abstract] AND aging",
	"epigenetic clock[Title/Abstract]",

	// Interventions
	"anti-aging interventions[Title/Abstract]",
	"longevity interventions[Title/Abstract]",
	"aging reversal[Title/Abstract]",

	// Model organisms
	"aging[Title/Abstract] AND C elegans",
	"aging[Title/Abstract] AND Drosophila",
	"aging[Title/Abstract] AND mice",
	"longevity[Title/Abstract] AND naked mole rat",
	"aging[Title/Abstract] AND caloric restriction",
}

type queryFile struct {
	Queries []string `yaml:"queries"`
}

// LoadQueryFile reads a YAML file with a top-level "queries" list so a run
// can use a custom sweep instead of DefaultQueries.
func LoadQueryFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading query file: %w", err)
	}
	var qf queryFile
	if err := yaml.Unmarshal(data, &qf); err != nil {
		return nil, fmt.Errorf("parsing query file %s: %w", path, err)
	}
	if len(qf.Queries) == 0 {
		return nil, fmt.Errorf("query file %s contains no queries", path)
	}
	return qf.Queries, nil
}
