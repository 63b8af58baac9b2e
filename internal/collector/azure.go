package collector

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/costmanagement/armcostmanagement"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/resources/armresources"

	"github.com/egresswatch/egresswatch/internal/config"
	"github.com/egresswatch/egresswatch/internal/domain/timeseries"
	"github.com/egresswatch/egresswatch/internal/pkg/errors"
	"github.com/egresswatch/egresswatch/internal/pkg/logger"
)

const azureBytesPerGB = 1e9

// AzureCollector pulls daily bandwidth usage per resource from Azure
// Cost Management and resource locations from the Resource Manager.
type AzureCollector struct {
	cfg config.CollectorConfig
	log *logger.Logger
}

// NewAzureCollector creates an Azure usage collector
func NewAzureCollector(cfg config.CollectorConfig, log *logger.Logger) *AzureCollector {
	return &AzureCollector{cfg: cfg, log: log}
}

func (c *AzureCollector) Name() string { return "azure" }

// Collect queries daily bandwidth usage quantities grouped by resource.
// Usage quantities arrive in GB and are converted to bytes.
func (c *AzureCollector) Collect(ctx context.Context, window Window) (*Batch, error) {
	credential, err := azidentity.NewClientSecretCredential(
		c.cfg.AzureTenantID, c.cfg.AzureClientID, c.cfg.AzureClientSecret, nil)
	if err != nil {
		return nil, errors.ProviderAuthError("azure", err)
	}

	batch := NewBatch()
	if err := c.collectUsage(ctx, credential, window, batch); err != nil {
		return nil, err
	}
	c.collectLocations(ctx, credential, batch)
	return batch, nil
}

func (c *AzureCollector) collectUsage(ctx context.Context, credential *azidentity.ClientSecretCredential, window Window, batch *Batch) error {
	client, err := armcostmanagement.NewQueryClient(credential, nil)
	if err != nil {
		return errors.ProviderAPIError("azure", err)
	}

	scope := fmt.Sprintf("subscriptions/%s", c.cfg.AzureSubscriptionID)

	timePeriod := armcostmanagement.QueryTimePeriod{
		From: &window.Start,
		To:   &window.End,
	}

	sumFunc := armcostmanagement.FunctionTypeSum
	queryAggregation := map[string]*armcostmanagement.QueryAggregation{
		"UsageQuantity": {
			Name:     ptrStr("UsageQuantity"),
			Function: &sumFunc,
		},
	}

	dimGrouping := armcostmanagement.QueryColumnTypeDimension
	queryGrouping := []*armcostmanagement.QueryGrouping{
		{Type: &dimGrouping, Name: ptrStr("ResourceId")},
		{Type: &dimGrouping, Name: ptrStr("ResourceLocation")},
	}

	operatorIn := armcostmanagement.QueryOperatorTypeIn
	queryFilter := armcostmanagement.QueryFilter{
		Dimensions: &armcostmanagement.QueryComparisonExpression{
			Name:     ptrStr("MeterCategory"),
			Operator: &operatorIn,
			Values:   []*string{ptrStr("Bandwidth")},
		},
	}

	granularity := armcostmanagement.GranularityTypeDaily
	timeframeCustom := armcostmanagement.TimeframeTypeCustom
	exportTypeUsage := armcostmanagement.ExportTypeUsage

	queryDef := armcostmanagement.QueryDefinition{
		Type:       &exportTypeUsage,
		Timeframe:  &timeframeCustom,
		TimePeriod: &timePeriod,
		Dataset: &armcostmanagement.QueryDataset{
			Granularity: &granularity,
			Aggregation: queryAggregation,
			Grouping:    queryGrouping,
			Filter:      &queryFilter,
		},
	}

	result, err := client.Usage(ctx, scope, queryDef, nil)
	if err != nil {
		return errors.ProviderAPIError("azure", err)
	}

	if result.Properties == nil || result.Properties.Rows == nil {
		return nil
	}

	// Build column index mapping
	colIndex := make(map[string]int)
	if result.Properties.Columns != nil {
		for i, col := range result.Properties.Columns {
			if col.Name != nil {
				colIndex[*col.Name] = i
			}
		}
	}

	usageIdx, hasUsage := colIndex["UsageQuantity"]
	resourceIdx, hasResource := colIndex["ResourceId"]
	locationIdx, hasLocation := colIndex["ResourceLocation"]
	dateIdx, hasDate := colIndex["UsageDateKey"]
	if !hasDate {
		dateIdx, hasDate = colIndex["UsageDate"]
	}
	if !hasUsage || !hasResource || !hasDate {
		c.log.Warn("azure usage response is missing expected columns")
		return nil
	}

	type point struct {
		at    time.Time
		bytes float64
	}
	points := map[string][]point{}

	for _, row := range result.Properties.Rows {
		if len(row) == 0 {
			continue
		}

		var quantityGB float64
		if usageIdx < len(row) {
			if v, ok := row[usageIdx].(float64); ok {
				quantityGB = v
			}
		}

		var resourceID string
		if resourceIdx < len(row) {
			if v, ok := row[resourceIdx].(string); ok {
				resourceID = v
			}
		}
		if resourceID == "" {
			continue
		}

		var usageDate time.Time
		if dateIdx < len(row) {
			switch v := row[dateIdx].(type) {
			case float64:
				// Azure returns date as YYYYMMDD integer
				dateInt := int(v)
				year := dateInt / 10000
				month := (dateInt % 10000) / 100
				day := dateInt % 100
				usageDate = time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
			case string:
				usageDate, _ = time.Parse("2006-01-02", v)
			}
		}
		if usageDate.IsZero() {
			continue
		}

		if hasLocation && locationIdx < len(row) {
			if v, ok := row[locationIdx].(string); ok && v != "" {
				batch.Regions[shortResourceID(resourceID)] = strings.ToLower(v)
			}
		}

		key := shortResourceID(resourceID)
		points[key] = append(points[key], point{at: usageDate, bytes: quantityGB * azureBytesPerGB})
	}

	for resourceID, pts := range points {
		ts := timeseries.New(resourceID, "network_out_total", "bytes")
		// Rows arrive ordered by date within a group; aggregate
		// duplicate days defensively before appending.
		byDay := map[time.Time]float64{}
		for _, p := range pts {
			byDay[p.at] += p.bytes
		}
		days := make([]time.Time, 0, len(byDay))
		for day := range byDay {
			days = append(days, day)
		}
		sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })
		for _, day := range days {
			if err := ts.Append(day, byDay[day]); err != nil {
				c.log.WithError(err).Warnf("azure: dropping sample for %s", resourceID)
			}
		}
		batch.Series[ts.Key()] = ts
	}

	return nil
}

// collectLocations fills region gaps from the Resource Manager inventory.
// Failures here degrade pricing to the default table, not the whole pass.
func (c *AzureCollector) collectLocations(ctx context.Context, credential *azidentity.ClientSecretCredential, batch *Batch) {
	client, err := armresources.NewClient(c.cfg.AzureSubscriptionID, credential, nil)
	if err != nil {
		c.log.WithError(err).Warn("azure: resource client unavailable")
		return
	}

	pager := client.NewListPager(nil)
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			c.log.WithError(err).Warn("azure: listing resources failed")
			return
		}
		for _, res := range page.Value {
			if res.ID == nil || res.Location == nil {
				continue
			}
			id := shortResourceID(*res.ID)
			if _, ok := batch.Regions[id]; !ok {
				batch.Regions[id] = strings.ToLower(*res.Location)
			}
		}
	}
}

// shortResourceID trims an ARM resource ID to its final name segment,
// which is how resources are keyed throughout the pipeline.
func shortResourceID(id string) string {
	if i := strings.LastIndexByte(id, '/'); i >= 0 && i+1 < len(id) {
		return strings.ToLower(id[i+1:])
	}
	return strings.ToLower(id)
}

func ptrStr(s string) *string {
	return &s
}
