package bind

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/hatlonely/typedef/log"
	"github.com/hatlonely/typedef/model"
	"github.com/hatlonely/typedef/valid"
)

type Options struct {
	// Name 组件名称，作为指标名前缀和日志的 component 字段
	Name string `cfg:"name" def:"typedef"`

	// EnableMetrics 是否启用指标收集
	EnableMetrics bool `cfg:"enableMetrics" def:"true"`

	// EnableLogging 是否记录失败日志
	EnableLogging bool `cfg:"enableLogging" def:"true"`

	// Logger 日志配置，为空时使用默认日志器
	Logger *log.Options `cfg:"logger"`

	// Registerer 指标注册位置，为空时使用 prometheus 默认注册表
	Registerer prometheus.Registerer `cfg:"-"`
}

// Metrics 封装 prometheus 指标
type Metrics struct {
	counter  *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func NewMetrics(name string, reg prometheus.Registerer) (*Metrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	counter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: name + "_bind_total",
			Help: "Total number of payload bind and render operations",
		},
		[]string{"model", "op", "result"},
	)
	duration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    name + "_bind_duration_seconds",
			Help:    "Duration of payload bind and render operations in seconds",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
		},
		[]string{"model", "op"},
	)

	var err error
	if counter, err = register(reg, counter); err != nil {
		return nil, err
	}
	if duration, err = register(reg, duration); err != nil {
		return nil, err
	}
	return &Metrics{counter: counter, duration: duration}, nil
}

// register 同名指标已注册时复用已有的
func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, errors.Wrap(err, "register metrics failed")
	}
	return c, nil
}

// Binder 按模型校验、转换请求数据，并记录指标和日志
//
// Binder 不持有可变状态，可以在多个 goroutine 中使用
type Binder struct {
	name          string
	logger        log.Logger
	metrics       *Metrics
	enableLogging bool
}

func NewBinderWithOptions(options *Options) (*Binder, error) {
	if options == nil {
		return nil, errors.New("options is nil")
	}
	name := options.Name
	if name == "" {
		name = "typedef"
	}

	b := &Binder{name: name, enableLogging: options.EnableLogging}

	if options.EnableLogging {
		if options.Logger != nil {
			l, err := log.NewLogWithOptions(options.Logger)
			if err != nil {
				return nil, errors.WithMessage(err, "failed to create logger")
			}
			b.logger = l.WithGroup("binder")
		} else {
			b.logger = log.Default().WithGroup("binder")
		}
	}

	if options.EnableMetrics {
		m, err := NewMetrics(name, options.Registerer)
		if err != nil {
			return nil, err
		}
		b.metrics = m
	}
	return b, nil
}

// Bind 依次执行 Valid、Deserialize、Check，失败时返回 *valid.Error
func (b *Binder) Bind(ctx context.Context, m *model.Model, payload map[string]any) (map[string]any, error) {
	var out map[string]any
	err := b.observe(ctx, m, "bind", func() error {
		if err := m.Valid(payload); err != nil {
			return err
		}
		v, err := m.Deserialize(payload)
		if err != nil {
			return err
		}
		out, _ = v.(map[string]any)
		return m.Check(out)
	})
	if err != nil {
		return nil, valid.From(err)
	}
	return out, nil
}

// Render 把内部值转为输出表示
func (b *Binder) Render(ctx context.Context, m *model.Model, value any) (any, error) {
	var out any
	err := b.observe(ctx, m, "render", func() error {
		v, err := m.Serialize(value)
		out = v
		return err
	})
	if err != nil {
		return nil, valid.From(err)
	}
	return out, nil
}

func (b *Binder) observe(ctx context.Context, m *model.Model, op string, fn func() error) error {
	if m == nil {
		return valid.Invalid("model is nil")
	}
	start := time.Now()
	err := fn()
	duration := time.Since(start)

	if b.metrics != nil {
		result := "success"
		if err != nil {
			result = "error"
		}
		b.metrics.counter.WithLabelValues(m.Name(), op, result).Inc()
		b.metrics.duration.WithLabelValues(m.Name(), op).Observe(duration.Seconds())
	}

	if b.enableLogging && b.logger != nil && err != nil {
		b.logger.WarnContext(ctx, "payload "+op+" failed",
			"component", b.name,
			"model", m.Name(),
			"duration_ms", duration.Milliseconds(),
			"error", valid.From(err).Out(),
		)
	}
	return err
}
