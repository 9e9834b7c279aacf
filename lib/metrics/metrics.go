package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	FramesRendered = promauto.NewCounter(prometheus.CounterOpts{
		Name: "learngl_frames_rendered_total",
		Help: "Total number of iterations of the render loop that swapped buffers",
	})
	DrawCalls = promauto.NewCounter(prometheus.CounterOpts{
		Name: "learngl_draw_calls_total",
		Help: "Total number of draw calls issued",
	})
	ShaderCompileFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "learngl_shader_compile_failures_total",
		Help: "Total number of shader objects that failed to compile",
	}, []string{"stage"})
	ProgramLinkFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "learngl_program_link_failures_total",
		Help: "Total number of shader programs that failed to link",
	})
	ShaderReloads = promauto.NewCounter(prometheus.CounterOpts{
		Name: "learngl_shader_reloads_total",
		Help: "Total number of shader program rebuilds after the shader files changed",
	})
	ViewportResizes = promauto.NewCounter(prometheus.CounterOpts{
		Name: "learngl_viewport_resizes_total",
		Help: "Total number of framebuffer resize events applied to the viewport",
	})
	ViewportSize = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "learngl_viewport_pixels",
		Help: "Current viewport size",
	}, []string{"dimension"})
)

func init() {
	ShaderCompileFailures.WithLabelValues("VERTEX").Add(0)
	ShaderCompileFailures.WithLabelValues("FRAGMENT").Add(0)
}

func SetViewport(width, height int) {
	ViewportSize.WithLabelValues("width").Set(float64(width))
	ViewportSize.WithLabelValues("height").Set(float64(height))
}

// Handler should usually be mounted at /metrics
func Handler() http.Handler {
	return promhttp.Handler()
}
