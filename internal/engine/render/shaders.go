package render

// Vertex shader for instanced building batches. The per-instance model
// matrix arrives as four vec4 attributes at locations 2..5.
const instancedVertexShader = `
#version 410 core

layout(location = 0) in vec3 aPosition;
layout(location = 1) in vec3 aNormal;
layout(location = 2) in mat4 aModel;

uniform mat4 uViewProj;

out vec3 vNormal;
out vec3 vWorldPos;

void main() {
    vec4 worldPos = aModel * vec4(aPosition, 1.0);
    vWorldPos = worldPos.xyz;
    vNormal = mat3(aModel) * aNormal;
    gl_Position = uViewProj * worldPos;
}
`

// Vertex shader for hero buildings drawn one at a time.
const heroVertexShader = `
#version 410 core

layout(location = 0) in vec3 aPosition;
layout(location = 1) in vec3 aNormal;

uniform mat4 uViewProj;
uniform mat4 uModel;

out vec3 vNormal;
out vec3 vWorldPos;

void main() {
    vec4 worldPos = uModel * vec4(aPosition, 1.0);
    vWorldPos = worldPos.xyz;
    vNormal = mat3(uModel) * aNormal;
    gl_Position = uViewProj * worldPos;
}
`

// Shared fragment shader: simple directional lighting with a material tint.
const fragmentShader = `
#version 410 core

in vec3 vNormal;
in vec3 vWorldPos;

uniform vec3 uColor;
uniform vec3 uLightDir;

out vec4 fragColor;

void main() {
    vec3 n = normalize(vNormal);
    float diffuse = max(dot(n, normalize(-uLightDir)), 0.0);
    float ambient = 0.35;
    vec3 color = uColor * (ambient + diffuse * 0.65);
    fragColor = vec4(color, 1.0);
}
`
