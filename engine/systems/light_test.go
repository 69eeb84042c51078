package systems

import (
	m "math"
	"testing"
	"unsafe"

	"github.com/spaghettifunk/lumina/engine/math"
	"github.com/spaghettifunk/lumina/engine/renderer/metadata"
)

const testEpsilon float32 = 0.0001

func floatNear(t *testing.T, got, want float32) {
	t.Helper()
	if float32(m.Abs(float64(got-want))) > testEpsilon {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func vec3Near(t *testing.T, got, want math.Vec3) {
	t.Helper()
	if !got.Compare(want, testEpsilon) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func testLight(name string, lightType metadata.LightType) *metadata.LightSource {
	return &metadata.LightSource{
		Name:    name,
		Type:    lightType,
		Color:   math.NewVec3(1, 1, 1),
		Enabled: true,
	}
}

func TestLightSystemPacksTypeOrderedRanges(t *testing.T) {
	ls := NewLightSystem(LightSystemConfig{})
	ls.Add(testLight("spot", metadata.LightTypeSpot))
	ls.Add(testLight("ambient_a", metadata.LightTypeAmbient))
	ls.Add(testLight("point", metadata.LightTypePoint))
	ls.Add(testLight("directional", metadata.LightTypeDirectional))
	ls.Add(testLight("ambient_b", metadata.LightTypeAmbient))

	ls.Pack(math.NewMat4Identity())
	ranges := ls.block.Ranges

	if ranges.AmbientFrom != 0 || ranges.AmbientTo != 2 {
		t.Errorf("expected ambient range 0..2, got %d..%d", ranges.AmbientFrom, ranges.AmbientTo)
	}
	if ranges.DirectionalFrom != 2 || ranges.DirectionalTo != 3 {
		t.Errorf("expected directional range 2..3, got %d..%d", ranges.DirectionalFrom, ranges.DirectionalTo)
	}
	if ranges.PointFrom != 3 || ranges.PointTo != 4 {
		t.Errorf("expected point range 3..4, got %d..%d", ranges.PointFrom, ranges.PointTo)
	}
	if ranges.SpotFrom != 4 || ranges.SpotTo != 5 {
		t.Errorf("expected spot range 4..5, got %d..%d", ranges.SpotFrom, ranges.SpotTo)
	}
	if ranges.Count() != 5 {
		t.Errorf("expected 5 packed lights, got %d", ranges.Count())
	}

	wantTypes := []metadata.LightType{
		metadata.LightTypeAmbient, metadata.LightTypeAmbient,
		metadata.LightTypeDirectional,
		metadata.LightTypePoint,
		metadata.LightTypeSpot,
	}
	for i, want := range wantTypes {
		if got := ls.block.Lights[i].Info[0]; got != int32(want) {
			t.Errorf("light %d: expected type tag %d, got %d", i, want, got)
		}
	}
}

func TestLightSystemRangesEmptyForAbsentTypes(t *testing.T) {
	ls := NewLightSystem(LightSystemConfig{})
	ls.Add(testLight("point", metadata.LightTypePoint))

	ls.Pack(math.NewMat4Identity())
	ranges := ls.block.Ranges

	if ranges.AmbientFrom != ranges.AmbientTo {
		t.Errorf("expected empty ambient range, got %d..%d", ranges.AmbientFrom, ranges.AmbientTo)
	}
	if ranges.DirectionalFrom != ranges.DirectionalTo {
		t.Errorf("expected empty directional range, got %d..%d", ranges.DirectionalFrom, ranges.DirectionalTo)
	}
	if ranges.SpotFrom != ranges.SpotTo {
		t.Errorf("expected empty spot range, got %d..%d", ranges.SpotFrom, ranges.SpotTo)
	}
	if ranges.PointFrom != 0 || ranges.PointTo != 1 {
		t.Errorf("expected point range 0..1, got %d..%d", ranges.PointFrom, ranges.PointTo)
	}
}

func TestLightSystemSkipsDisabledLights(t *testing.T) {
	ls := NewLightSystem(LightSystemConfig{})
	ls.Add(testLight("on", metadata.LightTypeAmbient))
	off := testLight("off", metadata.LightTypeAmbient)
	off.Enabled = false
	ls.Add(off)

	ls.Pack(math.NewMat4Identity())

	if got := ls.block.Ranges.Count(); got != 1 {
		t.Errorf("expected 1 packed light, got %d", got)
	}
}

func TestLightSystemTransformsIntoViewSpace(t *testing.T) {
	ls := NewLightSystem(LightSystemConfig{})

	point := testLight("point", metadata.LightTypePoint)
	point.Position = math.NewVec3(1, 2, 3)
	point.AttenuationConstant = 1
	ls.Add(point)

	directional := testLight("directional", metadata.LightTypeDirectional)
	directional.Direction = math.NewVec3(0, -2, 0)
	ls.Add(directional)

	view := math.NewMat4Translation(math.NewVec3(5, 0, -1))
	ls.Pack(view)

	gotDirectional := ls.block.Lights[0]
	gotPoint := ls.block.Lights[1]

	// A translation moves positions but leaves directions alone, and
	// the direction is normalized on the way in.
	vec3Near(t, gotPoint.Position.ToVec3(), math.NewVec3(6, 2, 2))
	vec3Near(t, gotDirectional.Direction.ToVec3(), math.NewVec3(0, -1, 0))
	floatNear(t, gotPoint.Attenuation.X, 1)
}

func TestLightSystemClampsAtCapacity(t *testing.T) {
	ls := NewLightSystem(LightSystemConfig{})
	for i := 0; i < metadata.MaxLightsources; i++ {
		ls.Add(testLight("point", metadata.LightTypePoint))
	}
	for i := 0; i < 5; i++ {
		ls.Add(testLight("spot", metadata.LightTypeSpot))
	}

	ls.Pack(math.NewMat4Identity())
	ranges := ls.block.Ranges

	if ranges.Count() != metadata.MaxLightsources {
		t.Errorf("expected the pack clamped to %d lights, got %d", metadata.MaxLightsources, ranges.Count())
	}
	if ranges.PointTo != metadata.MaxLightsources {
		t.Errorf("expected point range to end at capacity, got %d", ranges.PointTo)
	}
	if ranges.SpotFrom != ranges.SpotTo {
		t.Errorf("expected the spot range empty after the clamp, got %d..%d", ranges.SpotFrom, ranges.SpotTo)
	}
}

func TestLightSystemPacksSpotAngleCosines(t *testing.T) {
	ls := NewLightSystem(LightSystemConfig{})
	spot := testLight("spot", metadata.LightTypeSpot)
	spot.Direction = math.NewVec3(0, -1, 0)
	spot.Position = math.NewVec3(0, 5, 0)
	spot.InnerConeAngle = math.DegToRad(30)
	spot.OuterConeAngle = math.DegToRad(45)
	spot.Falloff = 2
	spot.AttenuationConstant = 1
	ls.Add(spot)

	ls.Pack(math.NewMat4Identity())
	angles := ls.block.Lights[0].Angles

	floatNear(t, angles.X, float32(m.Cos(m.Pi/4)))
	floatNear(t, angles.Y, float32(m.Cos(m.Pi/6)))
	floatNear(t, angles.Z, 2)
}

func TestLightSystemAnimatesPointLightsAroundSpawn(t *testing.T) {
	ls := NewLightSystem(LightSystemConfig{Animate: true, OrbitSpeed: 1})
	spawn := math.NewVec3(5, 2, -3)
	point := testLight("point", metadata.LightTypePoint)
	point.Position = spawn
	ls.Add(point)

	ls.Update(0.5)

	if point.Position.Compare(spawn, testEpsilon) {
		t.Errorf("expected the point light to move off its spawn position")
	}
	floatNear(t, point.Position.Distance(spawn), pointOrbitRadius)
	floatNear(t, point.Position.Y, spawn.Y)

	// Freezing the animation pins the light where it is.
	ls.ToggleAnimation()
	frozen := point.Position
	ls.Update(0.5)
	vec3Near(t, point.Position, frozen)
}

func TestLightSystemDoesNotAnimateOtherTypes(t *testing.T) {
	ls := NewLightSystem(LightSystemConfig{Animate: true, OrbitSpeed: 1})
	position := math.NewVec3(0, 10, 0)
	spot := testLight("spot", metadata.LightTypeSpot)
	spot.Position = position
	ls.Add(spot)

	ls.Update(1)

	vec3Near(t, spot.Position, position)
}

func TestLightSystemRemove(t *testing.T) {
	ls := NewLightSystem(LightSystemConfig{})
	ls.Add(testLight("keep", metadata.LightTypeAmbient))
	ls.Add(testLight("drop", metadata.LightTypePoint))

	if !ls.Remove("drop") {
		t.Errorf("expected Remove to find the light")
	}
	if ls.Remove("drop") {
		t.Errorf("expected Remove to report an unknown light")
	}
	if got := ls.Count(); got != 1 {
		t.Errorf("expected 1 light left, got %d", got)
	}
}

func TestLightSystemPackedBufferSize(t *testing.T) {
	ls := NewLightSystem(LightSystemConfig{})
	data := ls.Pack(math.NewMat4Identity())

	wantRecord := 96
	if got := int(unsafe.Sizeof(metadata.LightShaderData{})); got != wantRecord {
		t.Errorf("expected a %d byte light record, got %d", wantRecord, got)
	}
	want := 32 + metadata.MaxLightsources*wantRecord
	if len(data) != want {
		t.Errorf("expected a %d byte light buffer, got %d", want, len(data))
	}
}
