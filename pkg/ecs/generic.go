package ecs

import "reflect"

// GetComponent 是基于泛型的组件获取辅助函数
// 相比反射版本省去调用方的类型断言，T 必须是组件的指针类型
//
// 用法:
//
//	crate, ok := ecs.GetComponent[*components.CrateComponent](em, id)
func GetComponent[T any](em *EntityManager, id EntityID) (T, bool) {
	var zero T
	comp, ok := em.GetComponent(id, reflect.TypeOf(zero))
	if !ok {
		return zero, false
	}
	typed, ok := comp.(T)
	if !ok {
		return zero, false
	}
	return typed, true
}

// HasComponent 是基于泛型的组件存在性检查
func HasComponent[T any](em *EntityManager, id EntityID) bool {
	var zero T
	return em.HasComponent(id, reflect.TypeOf(zero))
}

// GetEntitiesWith1 查询拥有指定单个组件类型的所有实体
func GetEntitiesWith1[T any](em *EntityManager) []EntityID {
	var zero T
	return em.GetEntitiesWith(reflect.TypeOf(zero))
}

// GetEntitiesWith2 查询同时拥有两个组件类型的所有实体
func GetEntitiesWith2[T1, T2 any](em *EntityManager) []EntityID {
	var zero1 T1
	var zero2 T2
	return em.GetEntitiesWith(reflect.TypeOf(zero1), reflect.TypeOf(zero2))
}
