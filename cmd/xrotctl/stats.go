package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"

	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/omeyang/xrotlog/pkg/observability/xmetrics"
)

// stats 进程内收集轮转指标，退出时汇总输出。
type stats struct {
	reader   *sdkmetric.ManualReader
	provider *sdkmetric.MeterProvider
	observer *xmetrics.OTelObserver
}

func newStats() (*stats, error) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	obs, err := xmetrics.NewOTelObserver(xmetrics.WithMeterProvider(provider))
	if err != nil {
		return nil, errors.Join(err, provider.Shutdown(context.Background()))
	}
	return &stats{reader: reader, provider: provider, observer: obs}, nil
}

// opStat 一种 operation/status 组合的汇总
type opStat struct {
	operation string
	status    string
	count     int64
	bytes     int64
}

// report 按 operation、status 输出次数与字节数，随后关闭 provider。
func (s *stats) report(ctx context.Context, w io.Writer) error {
	var rm metricdata.ResourceMetrics
	if err := s.reader.Collect(ctx, &rm); err != nil {
		return errors.Join(err, s.provider.Shutdown(ctx))
	}

	byKey := make(map[string]*opStat)
	get := func(attrs attribute.Set) *opStat {
		op, _ := attrs.Value("operation")
		st, _ := attrs.Value("status")
		key := op.AsString() + "/" + st.AsString()
		if byKey[key] == nil {
			byKey[key] = &opStat{operation: op.AsString(), status: st.AsString()}
		}
		return byKey[key]
	}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			sum, ok := m.Data.(metricdata.Sum[int64])
			if !ok {
				continue
			}
			for _, dp := range sum.DataPoints {
				switch m.Name {
				case xmetrics.MetricOperationTotal:
					get(dp.Attributes).count += dp.Value
				case xmetrics.MetricOperationBytes:
					get(dp.Attributes).bytes += dp.Value
				}
			}
		}
	}

	keys := make([]string, 0, len(byKey))
	for k := range byKey {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		st := byKey[k]
		fmt.Fprintf(w, "%s %s count=%d bytes=%d\n", st.operation, st.status, st.count, st.bytes)
	}
	return s.provider.Shutdown(ctx)
}
