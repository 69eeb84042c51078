package math

import (
	m "math"
)

/**
 * @brief Creates and returns an identity matrix.
 */
func NewMat4Identity() Mat4 {
	out := Mat4{}
	out.Data[0] = 1
	out.Data[5] = 1
	out.Data[10] = 1
	out.Data[15] = 1
	return out
}

/**
 * @brief Returns the result of multiplying this matrix with other. When the
 * product transforms a column vector, other is applied first.
 */
func (mat Mat4) Mul(other Mat4) Mat4 {
	out := Mat4{}
	for c := 0; c < 4; c++ {
		for r := 0; r < 4; r++ {
			var sum float32
			for k := 0; k < 4; k++ {
				sum += mat.Data[k*4+r] * other.Data[c*4+k]
			}
			out.Data[c*4+r] = sum
		}
	}
	return out
}

/**
 * @brief Creates and returns a translation matrix from the given position.
 */
func NewMat4Translation(position Vec3) Mat4 {
	out := NewMat4Identity()
	out.Data[12] = position.X
	out.Data[13] = position.Y
	out.Data[14] = position.Z
	return out
}

/**
 * @brief Returns a scale matrix using the provided scale.
 */
func NewMat4Scale(scale Vec3) Mat4 {
	out := NewMat4Identity()
	out.Data[0] = scale.X
	out.Data[5] = scale.Y
	out.Data[10] = scale.Z
	return out
}

func NewMat4EulerX(angleRadians float32) Mat4 {
	out := NewMat4Identity()
	c := float32(m.Cos(float64(angleRadians)))
	s := float32(m.Sin(float64(angleRadians)))
	out.Data[5] = c
	out.Data[6] = s
	out.Data[9] = -s
	out.Data[10] = c
	return out
}

func NewMat4EulerY(angleRadians float32) Mat4 {
	out := NewMat4Identity()
	c := float32(m.Cos(float64(angleRadians)))
	s := float32(m.Sin(float64(angleRadians)))
	out.Data[0] = c
	out.Data[2] = -s
	out.Data[8] = s
	out.Data[10] = c
	return out
}

func NewMat4EulerZ(angleRadians float32) Mat4 {
	out := NewMat4Identity()
	c := float32(m.Cos(float64(angleRadians)))
	s := float32(m.Sin(float64(angleRadians)))
	out.Data[0] = c
	out.Data[1] = s
	out.Data[4] = -s
	out.Data[5] = c
	return out
}

func NewMat4EulerXYZ(xRadians, yRadians, zRadians float32) Mat4 {
	rx := NewMat4EulerX(xRadians)
	ry := NewMat4EulerY(yRadians)
	rz := NewMat4EulerZ(zRadians)
	return rz.Mul(ry).Mul(rx)
}

/**
 * @brief Creates and returns a perspective projection matrix for a Vulkan
 * clip space, producing a zero-to-one depth range with Y inverted to match
 * the surface orientation.
 */
func NewMat4Perspective(fovRadians, aspectRatio, nearClip, farClip float32) Mat4 {
	f := float32(1.0 / m.Tan(float64(fovRadians)*0.5))
	out := Mat4{}
	out.Data[0] = f / aspectRatio
	out.Data[5] = -f
	out.Data[10] = farClip / (nearClip - farClip)
	out.Data[11] = -1
	out.Data[14] = (nearClip * farClip) / (nearClip - farClip)
	return out
}

/**
 * @brief Creates and returns an orthographic projection matrix with a
 * zero-to-one depth range, typically used to render screen space geometry.
 */
func NewMat4Orthographic(left, right, bottom, top, nearClip, farClip float32) Mat4 {
	out := NewMat4Identity()
	out.Data[0] = 2.0 / (right - left)
	out.Data[5] = 2.0 / (top - bottom)
	out.Data[10] = -1.0 / (farClip - nearClip)
	out.Data[12] = -(right + left) / (right - left)
	out.Data[13] = -(top + bottom) / (top - bottom)
	out.Data[14] = -nearClip / (farClip - nearClip)
	return out
}

/**
 * @brief Creates and returns a right-handed view matrix for a camera at
 * position looking at target.
 */
func NewMat4LookAt(position, target, up Vec3) Mat4 {
	zAxis := position.Sub(target).Normalized()
	xAxis := up.Cross(zAxis).Normalized()
	yAxis := zAxis.Cross(xAxis)

	out := NewMat4Identity()
	out.Data[0] = xAxis.X
	out.Data[1] = yAxis.X
	out.Data[2] = zAxis.X
	out.Data[4] = xAxis.Y
	out.Data[5] = yAxis.Y
	out.Data[6] = zAxis.Y
	out.Data[8] = xAxis.Z
	out.Data[9] = yAxis.Z
	out.Data[10] = zAxis.Z
	out.Data[12] = -xAxis.Dot(position)
	out.Data[13] = -yAxis.Dot(position)
	out.Data[14] = -zAxis.Dot(position)
	return out
}

/**
 * @brief Returns a transposed copy of the provided matrix.
 */
func (mat Mat4) Transposed() Mat4 {
	out := Mat4{}
	for c := 0; c < 4; c++ {
		for r := 0; r < 4; r++ {
			out.Data[r*4+c] = mat.Data[c*4+r]
		}
	}
	return out
}

/**
 * @brief Creates and returns an inverse of the provided matrix.
 */
func (mat Mat4) Inverse() Mat4 {
	d := mat.Data

	t0 := d[10] * d[15]
	t1 := d[14] * d[11]
	t2 := d[6] * d[15]
	t3 := d[14] * d[7]
	t4 := d[6] * d[11]
	t5 := d[10] * d[7]
	t6 := d[2] * d[15]
	t7 := d[14] * d[3]
	t8 := d[2] * d[11]
	t9 := d[10] * d[3]
	t10 := d[2] * d[7]
	t11 := d[6] * d[3]
	t12 := d[8] * d[13]
	t13 := d[12] * d[9]
	t14 := d[4] * d[13]
	t15 := d[12] * d[5]
	t16 := d[4] * d[9]
	t17 := d[8] * d[5]
	t18 := d[0] * d[13]
	t19 := d[12] * d[1]
	t20 := d[0] * d[9]
	t21 := d[8] * d[1]
	t22 := d[0] * d[5]
	t23 := d[4] * d[1]

	out := Mat4{}
	o := &out.Data

	o[0] = (t0*d[5] + t3*d[9] + t4*d[13]) - (t1*d[5] + t2*d[9] + t5*d[13])
	o[1] = (t1*d[1] + t6*d[9] + t9*d[13]) - (t0*d[1] + t7*d[9] + t8*d[13])
	o[2] = (t2*d[1] + t7*d[5] + t10*d[13]) - (t3*d[1] + t6*d[5] + t11*d[13])
	o[3] = (t5*d[1] + t8*d[5] + t11*d[9]) - (t4*d[1] + t9*d[5] + t10*d[9])

	det := d[0]*o[0] + d[4]*o[1] + d[8]*o[2] + d[12]*o[3]
	if det == 0 {
		return NewMat4Identity()
	}
	inv := 1.0 / det

	o[0] = inv * o[0]
	o[1] = inv * o[1]
	o[2] = inv * o[2]
	o[3] = inv * o[3]
	o[4] = inv * ((t1*d[4] + t2*d[8] + t5*d[12]) - (t0*d[4] + t3*d[8] + t4*d[12]))
	o[5] = inv * ((t0*d[0] + t7*d[8] + t8*d[12]) - (t1*d[0] + t6*d[8] + t9*d[12]))
	o[6] = inv * ((t3*d[0] + t6*d[4] + t11*d[12]) - (t2*d[0] + t7*d[4] + t10*d[12]))
	o[7] = inv * ((t4*d[0] + t9*d[4] + t10*d[8]) - (t5*d[0] + t8*d[4] + t11*d[8]))
	o[8] = inv * ((t12*d[7] + t15*d[11] + t16*d[15]) - (t13*d[7] + t14*d[11] + t17*d[15]))
	o[9] = inv * ((t13*d[3] + t18*d[11] + t21*d[15]) - (t12*d[3] + t19*d[11] + t20*d[15]))
	o[10] = inv * ((t14*d[3] + t19*d[7] + t22*d[15]) - (t15*d[3] + t18*d[7] + t23*d[15]))
	o[11] = inv * ((t17*d[3] + t20*d[7] + t23*d[11]) - (t16*d[3] + t21*d[7] + t22*d[11]))
	o[12] = inv * ((t14*d[10] + t17*d[14] + t13*d[6]) - (t16*d[14] + t12*d[6] + t15*d[10]))
	o[13] = inv * ((t20*d[14] + t12*d[2] + t19*d[10]) - (t18*d[10] + t21*d[14] + t13*d[2]))
	o[14] = inv * ((t18*d[6] + t23*d[14] + t15*d[2]) - (t22*d[14] + t14*d[2] + t19*d[6]))
	o[15] = inv * ((t22*d[10] + t16*d[2] + t21*d[6]) - (t20*d[6] + t23*d[10] + t17*d[2]))

	return out
}

/** @brief Returns the translation encoded in the provided matrix. */
func (mat Mat4) Position() Vec3 {
	return Vec3{X: mat.Data[12], Y: mat.Data[13], Z: mat.Data[14]}
}
