package math

/**
 * @brief Calculates smooth normals for the given vertex data by averaging
 * the face normals of every triangle a vertex participates in.
 */
func GeometryGenerateNormals(vertices []Vertex3D, indices []uint32) {
	for i := 0; i+2 < len(indices); i += 3 {
		i0 := indices[i+0]
		i1 := indices[i+1]
		i2 := indices[i+2]

		edge1 := vertices[i1].Position.Sub(vertices[i0].Position)
		edge2 := vertices[i2].Position.Sub(vertices[i0].Position)

		normal := edge1.Cross(edge2)

		vertices[i0].Normal = vertices[i0].Normal.Add(normal)
		vertices[i1].Normal = vertices[i1].Normal.Add(normal)
		vertices[i2].Normal = vertices[i2].Normal.Add(normal)
	}
	for i := range vertices {
		vertices[i].Normal = vertices[i].Normal.Normalized()
	}
}

/**
 * @brief Calculates the minimum and maximum extents of the given vertex data.
 */
func CalculateExtents(vertices []Vertex3D) Extents3D {
	if len(vertices) == 0 {
		return Extents3D{}
	}
	extents := Extents3D{
		Min: vertices[0].Position,
		Max: vertices[0].Position,
	}
	for _, v := range vertices[1:] {
		extents.Min = extents.Min.Min(v.Position)
		extents.Max = extents.Max.Max(v.Position)
	}
	return extents
}
