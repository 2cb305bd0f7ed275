// Package render draws building batches with OpenGL. Instanced batches
// upload their transform buffer only when the batch manager marks them
// dirty; hero buildings use a plain one-draw-per-object path.
package render

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/skyline/internal/engine/batch"
	"github.com/Faultbox/skyline/internal/engine/scene"
	"github.com/Faultbox/skyline/internal/engine/shader"
	"github.com/Faultbox/skyline/pkg/math"
)

// materialColors maps scene materials to flat tint colors.
var materialColors = [scene.MaterialCount]math.Vec3{
	scene.MaterialGlass:    {X: 0.45, Y: 0.62, Z: 0.78},
	scene.MaterialConcrete: {X: 0.62, Y: 0.60, Z: 0.58},
	scene.MaterialMetal:    {X: 0.55, Y: 0.57, Z: 0.62},
	scene.MaterialBrick:    {X: 0.64, Y: 0.38, Z: 0.30},
}

var lightDir = math.Vec3{X: -0.4, Y: -1.0, Z: -0.3}

// batchGPU is the GPU-side state for one instanced batch: its own VAO
// plus an instance VBO holding the model matrices.
type batchGPU struct {
	vao         uint32
	instanceVBO uint32
	capacity    int // allocated instance slots
	count       int32
}

// Backend owns the GL resources for drawing the city.
type Backend struct {
	mesh *cubeMesh

	instancedProgram uint32
	heroProgram      uint32
	heroVAO          uint32

	// uniform locations
	instViewProj int32
	instColor    int32
	instLight    int32
	heroViewProj int32
	heroModel    int32
	heroColor    int32
	heroLight    int32

	batches map[batch.Key]*batchGPU
	log     *zap.Logger
}

// New creates the render backend. Requires a current GL context.
func New(log *zap.Logger) (*Backend, error) {
	if log == nil {
		log = zap.NewNop()
	}

	b := &Backend{
		batches: make(map[batch.Key]*batchGPU),
		log:     log,
	}

	var err error
	b.instancedProgram, err = shader.CompileProgram(instancedVertexShader, fragmentShader)
	if err != nil {
		return nil, fmt.Errorf("instanced program: %w", err)
	}
	b.heroProgram, err = shader.CompileProgram(heroVertexShader, fragmentShader)
	if err != nil {
		gl.DeleteProgram(b.instancedProgram)
		return nil, fmt.Errorf("hero program: %w", err)
	}

	b.instViewProj = shader.GetUniform(b.instancedProgram, "uViewProj")
	b.instColor = shader.GetUniform(b.instancedProgram, "uColor")
	b.instLight = shader.GetUniform(b.instancedProgram, "uLightDir")
	b.heroViewProj = shader.GetUniform(b.heroProgram, "uViewProj")
	b.heroModel = shader.GetUniform(b.heroProgram, "uModel")
	b.heroColor = shader.GetUniform(b.heroProgram, "uColor")
	b.heroLight = shader.GetUniform(b.heroProgram, "uLightDir")

	b.mesh = newCubeMesh()

	gl.GenVertexArrays(1, &b.heroVAO)
	gl.BindVertexArray(b.heroVAO)
	b.mesh.bindVertexAttribs()
	gl.BindVertexArray(0)

	gl.Enable(gl.DEPTH_TEST)
	gl.Enable(gl.CULL_FACE)

	return b, nil
}

// Draw renders one frame's batches and heroes with the given combined
// view-projection matrix.
func (b *Backend) Draw(viewProj math.Mat4, batches []*batch.Batch, heroes []batch.Handle) {
	gl.ClearColor(0.53, 0.68, 0.85, 1.0)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	b.drawInstanced(viewProj, batches)
	b.drawHeroes(viewProj, heroes)
}

func (b *Backend) drawInstanced(viewProj math.Mat4, batches []*batch.Batch) {
	if len(batches) == 0 {
		return
	}

	gl.UseProgram(b.instancedProgram)
	gl.UniformMatrix4fv(b.instViewProj, 1, false, viewProj.Ptr())
	gl.Uniform3f(b.instLight, lightDir.X, lightDir.Y, lightDir.Z)

	seen := make(map[batch.Key]bool, len(batches))
	for _, bt := range batches {
		seen[bt.Key] = true

		gpu, ok := b.batches[bt.Key]
		if !ok {
			gpu = b.createBatchGPU()
			b.batches[bt.Key] = gpu
		}
		if bt.Dirty {
			b.upload(gpu, bt.Transforms)
			bt.MarkClean()
		}
		if gpu.count == 0 {
			continue
		}

		color := materialColors[bt.Key.Material]
		gl.Uniform3f(b.instColor, color.X, color.Y, color.Z)

		gl.BindVertexArray(gpu.vao)
		gl.DrawElementsInstanced(gl.TRIANGLES, b.mesh.indexCount, gl.UNSIGNED_INT, gl.PtrOffset(0), gpu.count)
	}
	gl.BindVertexArray(0)

	// Release GPU state for batches the manager no longer produces.
	for key, gpu := range b.batches {
		if !seen[key] {
			gl.DeleteVertexArrays(1, &gpu.vao)
			gl.DeleteBuffers(1, &gpu.instanceVBO)
			delete(b.batches, key)
		}
	}
}

func (b *Backend) drawHeroes(viewProj math.Mat4, heroes []batch.Handle) {
	if len(heroes) == 0 {
		return
	}

	gl.UseProgram(b.heroProgram)
	gl.UniformMatrix4fv(b.heroViewProj, 1, false, viewProj.Ptr())
	gl.Uniform3f(b.heroLight, lightDir.X, lightDir.Y, lightDir.Z)

	gl.BindVertexArray(b.heroVAO)
	for i := range heroes {
		h := &heroes[i]
		color := materialColors[h.Material]
		gl.Uniform3f(b.heroColor, color.X, color.Y, color.Z)
		gl.UniformMatrix4fv(b.heroModel, 1, false, h.Transform.Ptr())
		gl.DrawElements(gl.TRIANGLES, b.mesh.indexCount, gl.UNSIGNED_INT, gl.PtrOffset(0))
	}
	gl.BindVertexArray(0)
}

// createBatchGPU builds a VAO with the cube attributes plus the
// per-instance matrix attribute split over locations 2..5.
func (b *Backend) createBatchGPU() *batchGPU {
	gpu := &batchGPU{}

	gl.GenVertexArrays(1, &gpu.vao)
	gl.BindVertexArray(gpu.vao)
	b.mesh.bindVertexAttribs()

	gl.GenBuffers(1, &gpu.instanceVBO)
	gl.BindBuffer(gl.ARRAY_BUFFER, gpu.instanceVBO)

	// A mat4 attribute occupies four consecutive vec4 locations.
	const stride = 16 * 4
	for i := uint32(0); i < 4; i++ {
		loc := 2 + i
		gl.EnableVertexAttribArray(loc)
		gl.VertexAttribPointer(loc, 4, gl.FLOAT, false, stride, gl.PtrOffset(int(i)*16))
		gl.VertexAttribDivisor(loc, 1)
	}

	gl.BindVertexArray(0)
	return gpu
}

// upload copies the batch transforms into the instance VBO, growing the
// allocation only when the batch outgrows it.
func (b *Backend) upload(gpu *batchGPU, transforms []math.Mat4) {
	gpu.count = int32(len(transforms))
	if len(transforms) == 0 {
		return
	}

	gl.BindBuffer(gl.ARRAY_BUFFER, gpu.instanceVBO)
	size := len(transforms) * 16 * 4
	if len(transforms) > gpu.capacity {
		gl.BufferData(gl.ARRAY_BUFFER, size, gl.Ptr(transforms), gl.DYNAMIC_DRAW)
		gpu.capacity = len(transforms)
	} else {
		gl.BufferSubData(gl.ARRAY_BUFFER, 0, size, gl.Ptr(transforms))
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
}

// Resize updates the GL viewport.
func (b *Backend) Resize(width, height int) {
	gl.Viewport(0, 0, int32(width), int32(height))
}

// Destroy releases all GL resources.
func (b *Backend) Destroy() {
	for key, gpu := range b.batches {
		gl.DeleteVertexArrays(1, &gpu.vao)
		gl.DeleteBuffers(1, &gpu.instanceVBO)
		delete(b.batches, key)
	}
	gl.DeleteVertexArrays(1, &b.heroVAO)
	b.mesh.destroy()
	gl.DeleteProgram(b.instancedProgram)
	gl.DeleteProgram(b.heroProgram)
}
