package timeseries

// MetricDefinition describes a known egress metric exposed by a cloud
// resource type. Collectors use the registry to decide which metrics to
// request; analyzers use it to filter to outbound-direction traffic.
type MetricDefinition struct {
	Key          string `json:"key"`
	ResourceType string `json:"resource_type"`
	Unit         string `json:"unit"`
	Aggregation  string `json:"aggregation"` // total or average over the interval
	DisplayName  string `json:"display_name"`
}

// Resource types with known egress metrics
const (
	ResourceTypeVM               = "virtual_machine"
	ResourceTypeNetworkInterface = "network_interface"
	ResourceTypeLoadBalancer     = "load_balancer"
	ResourceTypeAppService       = "app_service"
	ResourceTypePublicIP         = "public_ip"
)

var registry = []MetricDefinition{
	{Key: "network_out_total", ResourceType: ResourceTypeVM, Unit: "bytes", Aggregation: "total", DisplayName: "Network Out Total"},
	{Key: "bytes_sent", ResourceType: ResourceTypeNetworkInterface, Unit: "bytes", Aggregation: "total", DisplayName: "Bytes Sent"},
	{Key: "bytes_out", ResourceType: ResourceTypeLoadBalancer, Unit: "bytes", Aggregation: "total", DisplayName: "Byte Count Out"},
	{Key: "data_out", ResourceType: ResourceTypeAppService, Unit: "bytes", Aggregation: "total", DisplayName: "Data Out"},
	{Key: "bytes_out", ResourceType: ResourceTypePublicIP, Unit: "bytes", Aggregation: "total", DisplayName: "Byte Count Out"},
}

// MetricsForResourceType returns the egress metrics known for a
// resource type. An unknown type returns nil, which collectors treat as
// "nothing to collect" rather than an error.
func MetricsForResourceType(resourceType string) []MetricDefinition {
	var out []MetricDefinition
	for _, def := range registry {
		if def.ResourceType == resourceType {
			out = append(out, def)
		}
	}
	return out
}

// IsEgressMetric reports whether the key names a known egress metric
func IsEgressMetric(key string) bool {
	for _, def := range registry {
		if def.Key == key {
			return true
		}
	}
	return false
}

// AllMetricKeys returns the distinct metric keys in the registry
func AllMetricKeys() []string {
	seen := map[string]bool{}
	var out []string
	for _, def := range registry {
		if !seen[def.Key] {
			seen[def.Key] = true
			out = append(out, def.Key)
		}
	}
	return out
}
