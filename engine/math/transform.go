package math

/**
 * @brief Represents the transform of an object in the world.
 * Transforms can have a parent whose own transform is then
 * taken into account.
 */
type Transform struct {
	/** @brief The position in the world. */
	Position Vec3
	/** @brief The rotation in the world. */
	Rotation Quaternion
	/** @brief The scale in the world. */
	Scale Vec3
	/** @brief Indicates if the local matrix is stale and needs rebuilding. */
	IsDirty bool
	/** @brief The cached local transformation matrix. */
	Local Mat4
	/** @brief An optional parent of this transform. */
	Parent *Transform
}

/**
 * @brief Creates and returns a new transform, using a zero vector for
 * position, identity quaternion for rotation and a one vector for scale.
 */
func NewTransform() *Transform {
	return &Transform{
		Position: NewVec3Zero(),
		Rotation: NewQuatIdentity(),
		Scale:    NewVec3One(),
		IsDirty:  true,
		Local:    NewMat4Identity(),
		Parent:   nil,
	}
}

/**
 * @brief Creates a transform from the given position, rotation and scale.
 */
func NewTransformFromPositionRotationScale(position Vec3, rotation Quaternion, scale Vec3) *Transform {
	return &Transform{
		Position: position,
		Rotation: rotation,
		Scale:    scale,
		IsDirty:  true,
		Local:    NewMat4Identity(),
		Parent:   nil,
	}
}

func (t *Transform) SetPosition(position Vec3) {
	t.Position = position
	t.IsDirty = true
}

func (t *Transform) Translate(translation Vec3) {
	t.Position = t.Position.Add(translation)
	t.IsDirty = true
}

func (t *Transform) SetRotation(rotation Quaternion) {
	t.Rotation = rotation
	t.IsDirty = true
}

func (t *Transform) Rotate(rotation Quaternion) {
	t.Rotation = rotation.Mul(t.Rotation)
	t.IsDirty = true
}

func (t *Transform) SetScale(scale Vec3) {
	t.Scale = scale
	t.IsDirty = true
}

/**
 * @brief Retrieves the local transformation matrix, rebuilding it from
 * position, rotation and scale when stale.
 */
func (t *Transform) GetLocal() Mat4 {
	if t.IsDirty {
		translation := NewMat4Translation(t.Position)
		rotation := t.Rotation.ToMat4()
		scale := NewMat4Scale(t.Scale)
		t.Local = translation.Mul(rotation).Mul(scale)
		t.IsDirty = false
	}
	return t.Local
}

/**
 * @brief Obtains the world matrix of the given transform by examining
 * its parent chain.
 */
func (t *Transform) GetWorld() Mat4 {
	local := t.GetLocal()
	if t.Parent != nil {
		parent := t.Parent.GetWorld()
		return parent.Mul(local)
	}
	return local
}
