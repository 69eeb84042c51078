package math

import (
	m "math"
)

/**
 * @brief Creates an identity quaternion.
 */
func NewQuatIdentity() Quaternion {
	return Quaternion{X: 0, Y: 0, Z: 0, W: 1}
}

/**
 * @brief Creates a quaternion from the given axis and angle.
 */
func NewQuatFromAxisAngle(axis Vec3, angle float32, normalize bool) Quaternion {
	halfAngle := 0.5 * angle
	s := float32(m.Sin(float64(halfAngle)))
	c := float32(m.Cos(float64(halfAngle)))

	q := Quaternion{X: s * axis.X, Y: s * axis.Y, Z: s * axis.Z, W: c}
	if normalize {
		return q.Normalized()
	}
	return q
}

/**
 * @brief Creates a quaternion from the given euler angles, applied in
 * roll, pitch, yaw order.
 */
func NewQuatFromEuler(pitch, yaw, roll float32) Quaternion {
	cy := float32(m.Cos(float64(yaw) * 0.5))
	sy := float32(m.Sin(float64(yaw) * 0.5))
	cp := float32(m.Cos(float64(pitch) * 0.5))
	sp := float32(m.Sin(float64(pitch) * 0.5))
	cr := float32(m.Cos(float64(roll) * 0.5))
	sr := float32(m.Sin(float64(roll) * 0.5))

	return Quaternion{
		X: sp*cy*cr - cp*sy*sr,
		Y: cp*sy*cr + sp*cy*sr,
		Z: cp*cy*sr - sp*sy*cr,
		W: cp*cy*cr + sp*sy*sr,
	}
}

func (q Quaternion) Normal() float32 {
	return float32(m.Sqrt(float64(q.X*q.X + q.Y*q.Y + q.Z*q.Z + q.W*q.W)))
}

/**
 * @brief Returns a normalized copy of the provided quaternion.
 */
func (q Quaternion) Normalized() Quaternion {
	normal := q.Normal()
	if normal == 0 {
		return NewQuatIdentity()
	}
	return Quaternion{X: q.X / normal, Y: q.Y / normal, Z: q.Z / normal, W: q.W / normal}
}

/**
 * @brief Returns the product of this quaternion and other, applying the
 * rotation of other first.
 */
func (q Quaternion) Mul(other Quaternion) Quaternion {
	return Quaternion{
		X: q.W*other.X + q.X*other.W + q.Y*other.Z - q.Z*other.Y,
		Y: q.W*other.Y - q.X*other.Z + q.Y*other.W + q.Z*other.X,
		Z: q.W*other.Z + q.X*other.Y - q.Y*other.X + q.Z*other.W,
		W: q.W*other.W - q.X*other.X - q.Y*other.Y - q.Z*other.Z,
	}
}

/**
 * @brief Creates a rotation matrix from the given quaternion.
 */
func (q Quaternion) ToMat4() Mat4 {
	n := q.Normalized()

	xx := n.X * n.X
	yy := n.Y * n.Y
	zz := n.Z * n.Z
	xy := n.X * n.Y
	xz := n.X * n.Z
	yz := n.Y * n.Z
	wx := n.W * n.X
	wy := n.W * n.Y
	wz := n.W * n.Z

	out := NewMat4Identity()
	out.Data[0] = 1 - 2*(yy+zz)
	out.Data[1] = 2 * (xy + wz)
	out.Data[2] = 2 * (xz - wy)
	out.Data[4] = 2 * (xy - wz)
	out.Data[5] = 1 - 2*(xx+zz)
	out.Data[6] = 2 * (yz + wx)
	out.Data[8] = 2 * (xz + wy)
	out.Data[9] = 2 * (yz - wx)
	out.Data[10] = 1 - 2*(xx+yy)
	return out
}

/**
 * @brief Rotates the provided vector by this quaternion.
 */
func (q Quaternion) RotateVec3(v Vec3) Vec3 {
	u := Vec3{X: q.X, Y: q.Y, Z: q.Z}
	s := q.W

	return u.MulScalar(2 * u.Dot(v)).
		Add(v.MulScalar(s*s - u.Dot(u))).
		Add(u.Cross(v).MulScalar(2 * s))
}
