package collector

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/costexplorer"
	cetypes "github.com/aws/aws-sdk-go-v2/service/costexplorer/types"
	"github.com/aws/aws-sdk-go-v2/service/ec2"

	"github.com/egresswatch/egresswatch/internal/config"
	"github.com/egresswatch/egresswatch/internal/domain/timeseries"
	"github.com/egresswatch/egresswatch/internal/pkg/errors"
	"github.com/egresswatch/egresswatch/internal/pkg/logger"
)

const awsBytesPerGB = 1e9

// AWSCollector pulls daily data-transfer-out usage from Cost Explorer.
// Cost Explorer reports usage per usage type and region rather than per
// instance, so each (usage type, region) pair becomes one series; the
// EC2 inventory supplies the region map for pricing.
type AWSCollector struct {
	cfg config.CollectorConfig
	log *logger.Logger
}

// NewAWSCollector creates an AWS usage collector
func NewAWSCollector(cfg config.CollectorConfig, log *logger.Logger) *AWSCollector {
	return &AWSCollector{cfg: cfg, log: log}
}

func (c *AWSCollector) Name() string { return "aws" }

func (c *AWSCollector) Collect(ctx context.Context, window Window) (*Batch, error) {
	cfg, err := c.loadConfig(ctx, "us-east-1") // Cost Explorer is only available in us-east-1
	if err != nil {
		return nil, errors.ProviderAuthError("aws", err)
	}

	batch := NewBatch()
	if err := c.collectUsage(ctx, cfg, window, batch); err != nil {
		return nil, err
	}
	c.collectInstanceRegions(ctx, batch)
	return batch, nil
}

func (c *AWSCollector) loadConfig(ctx context.Context, region string) (aws.Config, error) {
	if c.cfg.AWSAccessKeyID != "" && c.cfg.AWSSecretAccessKey != "" {
		return awsconfig.LoadDefaultConfig(ctx,
			awsconfig.WithRegion(region),
			awsconfig.WithCredentialsProvider(
				credentials.NewStaticCredentialsProvider(c.cfg.AWSAccessKeyID, c.cfg.AWSSecretAccessKey, "")),
		)
	}
	return awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
}

func (c *AWSCollector) collectUsage(ctx context.Context, cfg aws.Config, window Window, batch *Batch) error {
	ceClient := costexplorer.NewFromConfig(cfg)

	input := &costexplorer.GetCostAndUsageInput{
		TimePeriod: &cetypes.DateInterval{
			Start: aws.String(window.Start.UTC().Format("2006-01-02")),
			End:   aws.String(window.End.UTC().Format("2006-01-02")),
		},
		Granularity: cetypes.GranularityDaily,
		Metrics:     []string{"UsageQuantity"},
		Filter: &cetypes.Expression{
			Dimensions: &cetypes.DimensionValues{
				Key:    cetypes.DimensionUsageTypeGroup,
				Values: []string{"EC2: Data Transfer - Internet (Out)"},
			},
		},
		GroupBy: []cetypes.GroupDefinition{
			{Type: cetypes.GroupDefinitionTypeDimension, Key: aws.String("USAGE_TYPE")},
			{Type: cetypes.GroupDefinitionTypeDimension, Key: aws.String("REGION")},
		},
	}

	result, err := ceClient.GetCostAndUsage(ctx, input)
	if err != nil {
		return errors.ProviderAPIError("aws", err)
	}

	type point struct {
		at    time.Time
		bytes float64
	}
	points := map[timeseries.Key][]point{}
	regions := map[string]string{}

	for _, resultByTime := range result.ResultsByTime {
		if resultByTime.TimePeriod == nil || resultByTime.TimePeriod.Start == nil {
			continue
		}
		usageDate, err := time.Parse("2006-01-02", *resultByTime.TimePeriod.Start)
		if err != nil {
			continue
		}

		for _, group := range resultByTime.Groups {
			usageType := ""
			regionName := ""
			if len(group.Keys) > 0 {
				usageType = group.Keys[0]
			}
			if len(group.Keys) > 1 {
				regionName = group.Keys[1]
			}

			amount := 0.0
			if metric, ok := group.Metrics["UsageQuantity"]; ok && metric.Amount != nil {
				amount, _ = strconv.ParseFloat(*metric.Amount, 64)
			}
			if amount == 0 {
				continue
			}

			resourceID := "aws-" + strings.ToLower(usageType)
			key := timeseries.Key{ResourceID: resourceID, MetricKey: "network_out_total"}
			points[key] = append(points[key], point{at: usageDate, bytes: amount * awsBytesPerGB})
			if regionName != "" {
				regions[resourceID] = strings.ToLower(regionName)
			}
		}
	}

	for key, pts := range points {
		ts := timeseries.New(key.ResourceID, key.MetricKey, "bytes")
		for _, p := range pts {
			if err := ts.Append(p.at, p.bytes); err != nil {
				c.log.WithError(err).Warnf("aws: dropping sample for %s", key.ResourceID)
			}
		}
		batch.Series[key] = ts
	}
	for resource, region := range regions {
		batch.Regions[resource] = region
	}
	return nil
}

// collectInstanceRegions maps running instances to their region so
// instance-keyed static samples price correctly. Best effort only.
func (c *AWSCollector) collectInstanceRegions(ctx context.Context, batch *Batch) {
	cfg, err := c.loadConfig(ctx, c.cfg.AWSRegion)
	if err != nil {
		c.log.WithError(err).Warn("aws: ec2 config unavailable")
		return
	}

	ec2Client := ec2.NewFromConfig(cfg)
	paginator := ec2.NewDescribeInstancesPaginator(ec2Client, &ec2.DescribeInstancesInput{})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			c.log.WithError(err).Warn("aws: describing instances failed")
			return
		}
		for _, reservation := range page.Reservations {
			for _, instance := range reservation.Instances {
				if instance.InstanceId == nil {
					continue
				}
				id := strings.ToLower(*instance.InstanceId)
				if _, ok := batch.Regions[id]; !ok {
					batch.Regions[id] = strings.ToLower(cfg.Region)
				}
			}
		}
	}
}
