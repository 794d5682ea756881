package bind_group_provider

// BindGroupProviderOption is a functional option used to configure a BindGroupProvider during construction.
type BindGroupProviderOption func(*bindGroupProvider)

// WithSharedGeometry makes the provider draw with source's vertex buffer, index buffer and
// index count while keeping its own instance buffer and bind group. The geometry stays owned by
// source: this provider's Release never frees it, and its geometry setters are ignored.
//
// Parameters:
//   - source: the provider that owns the geometry, typically a mesh's provider
//
// Returns:
//   - BindGroupProviderOption: a function that links the geometry
func WithSharedGeometry(source BindGroupProvider) BindGroupProviderOption {
	return func(p *bindGroupProvider) {
		p.shared = source
	}
}
