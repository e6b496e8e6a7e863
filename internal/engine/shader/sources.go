package shader

// Attribute locations match mesh.Semantic.Location.

// MeshVertex transforms interleaved drawables. Missing attributes read the
// generic default (0,0,0,1), which the fragment stage detects through flags.
const MeshVertex = `#version 410 core

layout (location = 0) in vec3 aPosition;
layout (location = 1) in vec3 aNormal;
layout (location = 2) in vec4 aTangent;
layout (location = 3) in vec3 aTexCoord;

uniform mat4 uModel;
uniform mat4 uView;
uniform mat4 uProjection;

out vec3 vWorldPos;
out vec3 vNormal;
out vec3 vTexCoord;

void main() {
	vec4 world = uModel * vec4(aPosition, 1.0);
	vWorldPos = world.xyz;
	vNormal = mat3(uModel) * aNormal;
	vTexCoord = aTexCoord;
	gl_Position = uProjection * uView * world;
}
`

// MeshFragment shades with a directional light. Without normals it derives
// a face normal from screen-space derivatives. uShowUV visualizes texture
// coordinates instead.
const MeshFragment = `#version 410 core

in vec3 vWorldPos;
in vec3 vNormal;
in vec3 vTexCoord;

uniform vec3 uLightDir;
uniform vec3 uBaseColor;
uniform int uHasNormal;
uniform int uShowUV;

out vec4 FragColor;

void main() {
	vec3 n;
	if (uHasNormal == 1) {
		n = normalize(vNormal);
	} else {
		n = normalize(cross(dFdx(vWorldPos), dFdy(vWorldPos)));
	}

	vec3 base = uBaseColor;
	if (uShowUV == 1) {
		base = vec3(fract(vTexCoord.xy), 0.5);
	}

	float diffuse = abs(dot(n, normalize(uLightDir)));
	FragColor = vec4(base * (0.25 + 0.75 * diffuse), 1.0);
}
`

// LineVertex draws helper lines such as the bounds box.
const LineVertex = `#version 410 core

layout (location = 0) in vec3 aPosition;

uniform mat4 uView;
uniform mat4 uProjection;

void main() {
	gl_Position = uProjection * uView * vec4(aPosition, 1.0);
}
`

// LineFragment fills lines with a flat color.
const LineFragment = `#version 410 core

uniform vec3 uColor;

out vec4 FragColor;

void main() {
	FragColor = vec4(uColor, 1.0);
}
`
