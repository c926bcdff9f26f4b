package examples

import "github.com/opradox/opradox-cli/pkg/models"

func getSalesExamples() []ExampleSet {
	return []ExampleSet{
		{
			Name:        "Sales Reporting",
			Description: "Regional totals, rankings and a chart from an order list",
			Pipelines: []ExamplePipeline{
				{
					Name:        "Sales Summary",
					Filename:    "example-sales-summary.yaml",
					Description: "Completed orders grouped by region with a bar chart",
					Steps: []ExampleStep{
						{Type: models.BlockFilter, Config: models.Config{
							"column": "Status", "operator": "equals", "value": "Completed"}},
						{Type: models.BlockComputed, Config: models.Config{
							"name": "Revenue", "column_a": "Quantity", "operator": "*", "column_b": "UnitPrice"}},
						{Type: models.BlockGrouping, Config: models.Config{
							"groups": []string{"Region"}, "agg_column": "Revenue", "agg_func": "sum", "alias": "TotalRevenue"}},
						{Type: models.BlockSort, Config: models.Config{"column": "TotalRevenue", "direction": "desc"}},
						{Type: models.BlockChart, Config: models.Config{
							"chart_type": "bar", "x_column": "Region", "y_column": "TotalRevenue", "title": "Revenue by Region"}},
						{Type: models.BlockOutputSettings, Config: models.Config{
							"sheet_name": "Summary", "number_format": "#,##0.00"}},
					},
				},
				{
					Name:        "Top Sellers",
					Filename:    "example-top-sellers.yaml",
					Description: "Ranks sales reps within each region and highlights the top five",
					Steps: []ExampleStep{
						{Type: models.BlockWindowFunction, Config: models.Config{
							"window_type": "rank", "value_column": "Sales", "direction": "desc",
							"partition_by": []string{"Region"}, "alias": "RegionRank"}},
						{Type: models.BlockTimeSeries, Config: models.Config{
							"analysis_type": "ytd_sum", "date_column": "OrderDate", "value_column": "Sales"}},
						{Type: models.BlockConditionalFormat, Config: models.Config{
							"column": "Sales", "cf_type": "top_n", "rank": 5}},
					},
				},
			},
		},
	}
}

func getCustomerExamples() []ExampleSet {
	return []ExampleSet{
		{
			Name:        "Customer Data",
			Description: "Joining order rows with customer master data",
			Pipelines: []ExamplePipeline{
				{
					Name:        "Customer Enrichment",
					Filename:    "example-customer-enrichment.yaml",
					Description: "Brings name and city from a Customers sheet into each order",
					Steps: []ExampleStep{
						{Type: models.BlockLookupJoin, Config: models.Config{
							"source_type": models.SourceSameFileSheet, "source_sheet": "Customers",
							"main_key": "CustomerID", "source_key": "ID",
							"fetch_columns": []string{"Name", "City"}}},
						{Type: models.BlockTextTransform, Config: models.Config{
							"transform_type": "title", "column": "City", "name": "City"}},
						{Type: models.BlockIfElse, Config: models.Config{
							"name": "Segment", "condition_column": "Total", "operator": "greater_than",
							"condition_value": "1000", "then_value": "Key account", "else_value": "Standard"}},
					},
				},
				{
					Name:        "Price Scenario",
					Filename:    "example-price-scenario.yaml",
					Description: "What-if price increase applied through a formula",
					Steps: []ExampleStep{
						{Type: models.BlockWhatIfVariable, Config: models.Config{"name": "Increase", "value": 1.1}},
						{Type: models.BlockFormula, Config: models.Config{
							"name": "NewPrice", "expression": "[UnitPrice] * $Increase"}},
					},
				},
			},
		},
	}
}

func getQualityExamples() []ExampleSet {
	return []ExampleSet{
		{
			Name:        "Data Quality",
			Description: "Checks a table against a reference list",
			Pipelines: []ExamplePipeline{
				{
					Name:        "Data Quality Check",
					Filename:    "example-data-quality.yaml",
					Description: "Flags product codes missing from the reference file and marks duplicates",
					Steps: []ExampleStep{
						{Type: models.BlockTextTransform, Config: models.Config{
							"transform_type": "trim", "column": "ProductCode", "name": "ProductCode"}},
						{Type: models.BlockValidate, Config: models.Config{
							"column": "ProductCode", "reference_column": "Code"}},
						{Type: models.BlockConditionalFormat, Config: models.Config{
							"column": "ProductCode", "cf_type": "duplicates"}},
					},
				},
			},
		},
	}
}
