package search

import (
	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/simple"
	"github.com/blevesearch/bleve/v2/analysis/lang/en"
	"github.com/blevesearch/bleve/v2/mapping"
)

// buildIndexMapping creates the Bleve mapping for collection documents.
// Names and tab titles get full-text analysis; URLs use the simple
// analyzer so path segments still match without stemming artifacts.
func buildIndexMapping() mapping.IndexMapping {
	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultAnalyzer = en.AnalyzerName

	docMapping := bleve.NewDocumentMapping()

	nameField := bleve.NewTextFieldMapping()
	nameField.Analyzer = en.AnalyzerName
	nameField.Store = true
	nameField.IncludeTermVectors = true
	docMapping.AddFieldMappingsAt("name", nameField)

	spaceField := bleve.NewTextFieldMapping()
	spaceField.Analyzer = simple.Name
	spaceField.Store = true
	docMapping.AddFieldMappingsAt("space_name", spaceField)

	titlesField := bleve.NewTextFieldMapping()
	titlesField.Analyzer = en.AnalyzerName
	titlesField.Store = true
	titlesField.IncludeTermVectors = true
	docMapping.AddFieldMappingsAt("tab_titles", titlesField)

	urlsField := bleve.NewTextFieldMapping()
	urlsField.Analyzer = simple.Name
	urlsField.Store = true
	docMapping.AddFieldMappingsAt("tab_urls", urlsField)

	idField := bleve.NewTextFieldMapping()
	idField.Analyzer = keyword.Name
	docMapping.AddFieldMappingsAt("id", idField)

	countField := bleve.NewNumericFieldMapping()
	countField.Store = true
	docMapping.AddFieldMappingsAt("tab_count", countField)

	indexMapping.AddDocumentMapping("_default", docMapping)
	return indexMapping
}
