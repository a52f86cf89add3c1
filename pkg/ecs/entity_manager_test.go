package ecs

import (
	"reflect"
	"testing"
)

// 测试用组件
type testHealth struct {
	HP int
}

type testTag struct {
	Name string
}

// TestCreateEntity 测试实体ID从1开始且单调递增
func TestCreateEntity(t *testing.T) {
	em := NewEntityManager()

	first := em.CreateEntity()
	second := em.CreateEntity()

	if first == 0 {
		t.Error("CreateEntity returned zero ID, zero is reserved for empty cells")
	}
	if second <= first {
		t.Errorf("entity IDs not monotonic: first=%d second=%d", first, second)
	}
}

// TestAddAndGetComponent 测试组件的挂载与查询
func TestAddAndGetComponent(t *testing.T) {
	em := NewEntityManager()
	id := em.CreateEntity()

	em.AddComponent(id, &testHealth{HP: 10})

	health, ok := GetComponent[*testHealth](em, id)
	if !ok {
		t.Fatal("GetComponent failed for attached component")
	}
	if health.HP != 10 {
		t.Errorf("HP: got %d, want 10", health.HP)
	}

	// 未挂载的组件类型查询应失败
	if _, ok := GetComponent[*testTag](em, id); ok {
		t.Error("GetComponent succeeded for component type that was never attached")
	}
}

// TestDeferredDestroy 测试延迟销毁：标记后组件仍可访问，
// RemoveMarkedEntities 之后才真正移除
func TestDeferredDestroy(t *testing.T) {
	em := NewEntityManager()
	id := em.CreateEntity()
	em.AddComponent(id, &testHealth{HP: 5})

	em.DestroyEntity(id)

	if !em.EntityExists(id) {
		t.Error("entity removed before RemoveMarkedEntities was called")
	}

	em.RemoveMarkedEntities()

	if em.EntityExists(id) {
		t.Error("entity still exists after RemoveMarkedEntities")
	}
	if _, ok := GetComponent[*testHealth](em, id); ok {
		t.Error("component still accessible after entity removal")
	}
}

// TestGetEntitiesWith1 测试按组件类型筛选实体
func TestGetEntitiesWith1(t *testing.T) {
	em := NewEntityManager()

	withHealth := em.CreateEntity()
	em.AddComponent(withHealth, &testHealth{HP: 1})

	withBoth := em.CreateEntity()
	em.AddComponent(withBoth, &testHealth{HP: 2})
	em.AddComponent(withBoth, &testTag{Name: "x"})

	em.CreateEntity() // 无组件的实体不应出现在结果里

	got := GetEntitiesWith1[*testHealth](em)
	if len(got) != 2 {
		t.Fatalf("GetEntitiesWith1: got %d entities, want 2", len(got))
	}

	both := GetEntitiesWith2[*testHealth, *testTag](em)
	if len(both) != 1 || both[0] != withBoth {
		t.Errorf("GetEntitiesWith2: got %v, want [%d]", both, withBoth)
	}
}

// TestRemoveComponent 测试移除单个组件不影响实体本身
func TestRemoveComponent(t *testing.T) {
	em := NewEntityManager()
	id := em.CreateEntity()
	em.AddComponent(id, &testHealth{HP: 3})
	em.AddComponent(id, &testTag{Name: "keep"})

	em.RemoveComponent(id, reflect.TypeOf(&testHealth{}))

	if _, ok := GetComponent[*testHealth](em, id); ok {
		t.Error("removed component still accessible")
	}
	if _, ok := GetComponent[*testTag](em, id); !ok {
		t.Error("unrelated component lost after RemoveComponent")
	}
	if !em.EntityExists(id) {
		t.Error("entity destroyed by RemoveComponent")
	}
}
