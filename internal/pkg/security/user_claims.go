package security

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	JWTSecret         string = "CareLink"
	JWTExpirationTime        = time.Hour * 24
)

// 角色取值：WORKER-介护工作者端, FACILITY-设施管理端
const (
	RoleWorker   = "WORKER"
	RoleFacility = "FACILITY"
)

// ActorClaims 定义了 Token 中需要包含的业务信息
type ActorClaims struct {
	ActorID uint64 `json:"actor_id"`
	Role    string `json:"role"`
	jwt.RegisteredClaims
}
